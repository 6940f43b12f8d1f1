// package session holds the durable session token and the gate deciding
// whether protected views may render.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/golang-jwt/jwt/v5"

	"github.com/desertthunder/novtok/internal/shared"
)

// State enumerates the auth gate's states.
type State int

const (
	StateUnknown State = iota
	StateChecking
	StateAuthenticated
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateUnknown:
		return "unknown"
	case StateChecking:
		return "checking"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return ""
	}
}

// TokenStore abstracts the durable storage of the single session token.
type TokenStore interface {
	// Token returns the persisted token, or "" when absent.
	Token() (string, error)

	// Save persists the token together with the user identity it belongs to,
	// replacing any previous session.
	Save(token, userID, email string) error

	// Clear removes the persisted token.
	Clear() error
}

// StatusChecker validates a session against the platform. The gate installs
// the stored token on the checker before each check so the request carries
// the session it is validating.
type StatusChecker interface {
	SetToken(token string)
	CheckStatus(ctx context.Context, key string) (bool, error)
}

// Gate answers whether the current user may see protected views.
//
// The token is a single-writer resource: only Login and the 401-triggered
// clear mutate it. Every failure path maps to StateUnauthenticated (fail
// closed); only an explicit 401 removes the stored token.
type Gate struct {
	mu        sync.Mutex
	store     TokenStore
	checker   StatusChecker
	statusKey string
	state     State
	userID    string
	logger    *log.Logger
}

// NewGate creates a gate over the given store and checker.
func NewGate(store TokenStore, checker StatusChecker, statusKey string, logger *log.Logger) *Gate {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Gate{
		store:     store,
		checker:   checker,
		statusKey: statusKey,
		state:     StateUnknown,
		logger:    logger,
	}
}

// State returns the gate's current state.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// UserID returns the authenticated user's id, if known.
func (g *Gate) UserID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.userID
}

// Token reads the persisted token, or "" when absent.
func (g *Gate) Token() string {
	token, err := g.store.Token()
	if err != nil {
		g.logger.Debug("token read failed", "error", err)
		return ""
	}
	return token
}

// Check runs the startup status check and returns the resulting state.
//
// A missing token short-circuits to StateUnauthenticated without a network
// call. A token whose expiry claim already lies in the past does the same.
// Transport and server errors are swallowed here and map to
// StateUnauthenticated with the token left untouched; an explicit 401 clears
// the token.
func (g *Gate) Check(ctx context.Context) State {
	g.mu.Lock()
	g.state = StateChecking
	g.mu.Unlock()

	token := g.Token()
	if token == "" {
		return g.setState(StateUnauthenticated)
	}

	if expiry, ok := TokenExpiry(token); ok && expiry.Before(time.Now()) {
		g.logger.Debug("session token expired locally", "expiry", expiry)
		return g.setState(StateUnauthenticated)
	}

	g.checker.SetToken(token)
	authenticated, err := g.checker.CheckStatus(ctx, g.statusKey)
	if err != nil {
		if errors.Is(err, shared.ErrNotAuthenticated) {
			g.logger.Info("session rejected, clearing token")
			if clearErr := g.store.Clear(); clearErr != nil {
				g.logger.Error("failed to clear session", "error", clearErr)
			}
		} else {
			g.logger.Warn("status check failed, treating as unauthenticated", "error", err)
		}
		return g.setState(StateUnauthenticated)
	}

	if !authenticated {
		return g.setState(StateUnauthenticated)
	}

	return g.setState(StateAuthenticated)
}

// Login persists a fresh token and marks the gate authenticated.
func (g *Gate) Login(token, userID, email string) error {
	if token == "" {
		return fmt.Errorf("%w: empty token", shared.ErrAuthFailed)
	}

	if err := g.store.Save(token, userID, email); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	g.mu.Lock()
	g.state = StateAuthenticated
	g.userID = userID
	g.mu.Unlock()

	return nil
}

// Logout clears the persisted token and marks the gate unauthenticated.
func (g *Gate) Logout() error {
	if err := g.store.Clear(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	g.setState(StateUnauthenticated)
	return nil
}

// HandleUnauthorized inspects an error from any authorized call. When it is a
// 401, the token is cleared, the gate flips to StateUnauthenticated, and true
// is returned so the caller can redirect to login.
func (g *Gate) HandleUnauthorized(err error) bool {
	if !errors.Is(err, shared.ErrNotAuthenticated) {
		return false
	}

	if clearErr := g.store.Clear(); clearErr != nil {
		g.logger.Error("failed to clear session", "error", clearErr)
	}
	g.setState(StateUnauthenticated)
	return true
}

func (g *Gate) setState(s State) State {
	g.mu.Lock()
	defer g.mu.Unlock()
	if s != StateAuthenticated {
		g.userID = ""
	}
	g.state = s
	return s
}

// TokenExpiry decodes the token without verifying its signature and returns
// the expiry claim. The platform remains the authority on validity; this only
// lets the client skip a doomed network round trip and show the expiry in
// status output.
func TokenExpiry(token string) (time.Time, bool) {
	parser := jwt.NewParser()

	claims := jwt.RegisteredClaims{}
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}

	return claims.ExpiresAt.Time, true
}
