package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/desertthunder/novtok/internal/services"
	"github.com/desertthunder/novtok/internal/shared"
)

type fakeStore struct {
	token    string
	userID   string
	email    string
	saveErr  error
	clearErr error
	cleared  bool
}

func (s *fakeStore) Token() (string, error) { return s.token, nil }

func (s *fakeStore) Save(token, userID, email string) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.token, s.userID, s.email = token, userID, email
	return nil
}

func (s *fakeStore) Clear() error {
	if s.clearErr != nil {
		return s.clearErr
	}
	s.token = ""
	s.cleared = true
	return nil
}

type fakeChecker struct {
	authenticated bool
	err           error
	calls         int
	token         string
}

func (c *fakeChecker) SetToken(token string) { c.token = token }

func (c *fakeChecker) CheckStatus(ctx context.Context, key string) (bool, error) {
	c.calls++
	return c.authenticated, c.err
}

// signedToken builds a real HS256 token with the given expiry so the
// unverified decode path sees a well-formed claim set.
func signedToken(t *testing.T, expiry time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(expiry),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func TestGateCheck(t *testing.T) {
	ctx := context.Background()

	t.Run("missing token short-circuits without a network call", func(t *testing.T) {
		checker := &fakeChecker{authenticated: true}
		gate := NewGate(&fakeStore{}, checker, "auth", nil)

		if got := gate.Check(ctx); got != StateUnauthenticated {
			t.Errorf("expected StateUnauthenticated, got %v", got)
		}
		if checker.calls != 0 {
			t.Errorf("expected no status call, got %d", checker.calls)
		}
	})

	t.Run("locally expired token skips the network call", func(t *testing.T) {
		checker := &fakeChecker{authenticated: true}
		store := &fakeStore{token: signedToken(t, time.Now().Add(-time.Hour))}
		gate := NewGate(store, checker, "auth", nil)

		if got := gate.Check(ctx); got != StateUnauthenticated {
			t.Errorf("expected StateUnauthenticated, got %v", got)
		}
		if checker.calls != 0 {
			t.Errorf("expected no status call, got %d", checker.calls)
		}
		if store.cleared {
			t.Error("expected the token to be kept for status display")
		}
	})

	t.Run("transport error fails closed but keeps the token", func(t *testing.T) {
		store := &fakeStore{token: signedToken(t, time.Now().Add(time.Hour))}
		checker := &fakeChecker{err: errors.New("connection refused")}
		gate := NewGate(store, checker, "auth", nil)

		if got := gate.Check(ctx); got != StateUnauthenticated {
			t.Errorf("expected StateUnauthenticated, got %v", got)
		}
		if store.cleared {
			t.Error("expected the token to survive a transport error")
		}
	})

	t.Run("explicit rejection clears the token", func(t *testing.T) {
		store := &fakeStore{token: signedToken(t, time.Now().Add(time.Hour))}
		checker := &fakeChecker{err: shared.ErrNotAuthenticated}
		gate := NewGate(store, checker, "auth", nil)

		if got := gate.Check(ctx); got != StateUnauthenticated {
			t.Errorf("expected StateUnauthenticated, got %v", got)
		}
		if !store.cleared {
			t.Error("expected the token to be cleared on a 401")
		}
	})

	t.Run("negative status without error stays unauthenticated", func(t *testing.T) {
		store := &fakeStore{token: signedToken(t, time.Now().Add(time.Hour))}
		gate := NewGate(store, &fakeChecker{authenticated: false}, "auth", nil)

		if got := gate.Check(ctx); got != StateUnauthenticated {
			t.Errorf("expected StateUnauthenticated, got %v", got)
		}
	})

	t.Run("valid session authenticates", func(t *testing.T) {
		token := signedToken(t, time.Now().Add(time.Hour))
		store := &fakeStore{token: token}
		checker := &fakeChecker{authenticated: true}
		gate := NewGate(store, checker, "auth", nil)

		if got := gate.Check(ctx); got != StateAuthenticated {
			t.Errorf("expected StateAuthenticated, got %v", got)
		}
		if gate.State() != StateAuthenticated {
			t.Error("expected the gate to remember the state")
		}
		if checker.token != token {
			t.Errorf("expected the stored token on the checker, got %q", checker.token)
		}
	})

	t.Run("persisted session carries its token on the status request", func(t *testing.T) {
		token := signedToken(t, time.Now().Add(time.Hour))

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer "+token {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			fmt.Fprint(w, `{"isAuthenticated":true}`)
		}))
		defer server.Close()

		store := &fakeStore{token: token}
		gate := NewGate(store, services.NewAPIService(server.URL), "auth", nil)

		if got := gate.Check(ctx); got != StateAuthenticated {
			t.Errorf("expected StateAuthenticated, got %v", got)
		}
		if store.cleared || store.token != token {
			t.Error("expected the stored session to survive the check")
		}
	})

	t.Run("token without expiry claim still reaches the platform", func(t *testing.T) {
		checker := &fakeChecker{authenticated: true}
		gate := NewGate(&fakeStore{token: "opaque-session-token"}, checker, "auth", nil)

		if got := gate.Check(ctx); got != StateAuthenticated {
			t.Errorf("expected StateAuthenticated, got %v", got)
		}
		if checker.calls != 1 {
			t.Errorf("expected one status call, got %d", checker.calls)
		}
	})
}

func TestGateLogin(t *testing.T) {
	t.Run("persists the token and identity", func(t *testing.T) {
		store := &fakeStore{}
		gate := NewGate(store, &fakeChecker{}, "auth", nil)

		if err := gate.Login("tok-1", "user-1", "reader@example.com"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if store.token != "tok-1" || store.userID != "user-1" || store.email != "reader@example.com" {
			t.Errorf("session not saved: %+v", store)
		}
		if gate.State() != StateAuthenticated || gate.UserID() != "user-1" {
			t.Error("expected an authenticated gate with the user id set")
		}
	})

	t.Run("rejects an empty token", func(t *testing.T) {
		gate := NewGate(&fakeStore{}, &fakeChecker{}, "auth", nil)
		if err := gate.Login("", "user-1", ""); !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", err)
		}
		if gate.State() == StateAuthenticated {
			t.Error("expected the gate to stay closed")
		}
	})

	t.Run("surfaces store failures", func(t *testing.T) {
		store := &fakeStore{saveErr: errors.New("disk full")}
		gate := NewGate(store, &fakeChecker{}, "auth", nil)
		if err := gate.Login("tok-1", "user-1", ""); err == nil {
			t.Error("expected an error")
		}
	})
}

func TestGateLogout(t *testing.T) {
	store := &fakeStore{token: "tok-1"}
	gate := NewGate(store, &fakeChecker{}, "auth", nil)
	if err := gate.Login("tok-1", "user-1", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := gate.Logout(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !store.cleared || gate.State() != StateUnauthenticated || gate.UserID() != "" {
		t.Error("expected a cleared, unauthenticated gate")
	}
}

func TestHandleUnauthorized(t *testing.T) {
	t.Run("ignores unrelated errors", func(t *testing.T) {
		store := &fakeStore{token: "tok-1"}
		gate := NewGate(store, &fakeChecker{}, "auth", nil)

		if gate.HandleUnauthorized(errors.New("timeout")) {
			t.Error("expected false for a non-401 error")
		}
		if store.cleared {
			t.Error("expected the token to survive")
		}
	})

	t.Run("clears the session on a 401", func(t *testing.T) {
		store := &fakeStore{token: "tok-1"}
		gate := NewGate(store, &fakeChecker{}, "auth", nil)

		wrapped := shared.ErrNotAuthenticated
		if !gate.HandleUnauthorized(wrapped) {
			t.Error("expected true for a 401")
		}
		if !store.cleared || gate.State() != StateUnauthenticated {
			t.Error("expected a cleared, unauthenticated gate")
		}
	})

	t.Run("nil error is not a 401", func(t *testing.T) {
		gate := NewGate(&fakeStore{}, &fakeChecker{}, "auth", nil)
		if gate.HandleUnauthorized(nil) {
			t.Error("expected false for nil")
		}
	})
}

func TestTokenExpiry(t *testing.T) {
	t.Run("reads the expiry claim without verifying", func(t *testing.T) {
		want := time.Now().Add(2 * time.Hour).Truncate(time.Second)
		expiry, ok := TokenExpiry(signedToken(t, want))
		if !ok {
			t.Fatal("expected an expiry")
		}
		if !expiry.Equal(want) {
			t.Errorf("expected %v, got %v", want, expiry)
		}
	})

	t.Run("malformed tokens report no expiry", func(t *testing.T) {
		if _, ok := TokenExpiry("not-a-jwt"); ok {
			t.Error("expected no expiry")
		}
	})

	t.Run("tokens without the claim report no expiry", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{})
		signed, err := token.SignedString([]byte("test-secret"))
		if err != nil {
			t.Fatalf("failed to sign token: %v", err)
		}
		if _, ok := TokenExpiry(signed); ok {
			t.Error("expected no expiry")
		}
	})
}
