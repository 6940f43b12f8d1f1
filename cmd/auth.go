package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/desertthunder/novtok/internal/session"
	"github.com/desertthunder/novtok/internal/shared"
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

const minPasswordLength = 6

// validateCredentials applies the same local checks the platform's signup
// form runs before any network call.
func validateCredentials(email, password string) error {
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("%w: invalid email address", shared.ErrValidation)
	}
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", shared.ErrValidation, minPasswordLength)
	}
	return nil
}

// promptPassword reads a password without echo when stdin is a terminal,
// falling back to a plain line read otherwise.
func (r *Runner) promptPassword(prompt string) (string, error) {
	r.writePlain("%s", prompt)

	if f, ok := r.input.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		data, err := term.ReadPassword(int(f.Fd()))
		r.writePlain("\n")
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(data), nil
	}

	line, err := bufio.NewReader(r.input).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// AuthLogin exchanges credentials for a session token and stores it locally.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	password := cmd.String("password")

	if email == "" {
		return fmt.Errorf("%w: --email is required", shared.ErrMissingArgument)
	}
	if password == "" {
		var err error
		if password, err = r.promptPassword("Password: "); err != nil {
			return err
		}
	}

	if err := validateCredentials(email, password); err != nil {
		return err
	}

	r.logger.Info("logging in", "email", email)

	resp, err := r.svc.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	r.svc.SetToken(resp.Token)
	if r.gate != nil {
		if err := r.gate.Login(resp.Token, resp.User.ID, resp.User.Email); err != nil {
			r.logger.Warnf("failed to persist session: %v", err)
		}
	} else {
		r.logger.Warn("no local database; session will not persist (run `novtok setup database`)")
	}

	return r.writePlain("✓ Logged in as %s\n", resp.User.Name)
}

// AuthRegister creates an account and stores its first session token.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	name := cmd.String("name")
	email := cmd.String("email")
	password := cmd.String("password")

	if email == "" {
		return fmt.Errorf("%w: --email is required", shared.ErrMissingArgument)
	}
	if password == "" {
		var err error
		if password, err = r.promptPassword("Password: "); err != nil {
			return err
		}
		confirm, err := r.promptPassword("Confirm password: ")
		if err != nil {
			return err
		}
		if confirm != password {
			return fmt.Errorf("%w: passwords do not match", shared.ErrValidation)
		}
	}

	if err := validateCredentials(email, password); err != nil {
		return err
	}

	resp, err := r.svc.Register(ctx, name, email, password)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	r.svc.SetToken(resp.Token)
	if r.gate != nil {
		if err := r.gate.Login(resp.Token, resp.User.ID, resp.User.Email); err != nil {
			r.logger.Warnf("failed to persist session: %v", err)
		}
	}

	return r.writePlain("✓ Account created for %s\n", resp.User.Name)
}

// AuthStatus checks the stored session against the platform and reports the
// resulting state, including the token's expiry when it can be read locally.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if r.gate == nil {
		return fmt.Errorf("%w: no local database (run `novtok setup database`)", shared.ErrMissingConfig)
	}

	state := r.gate.Check(ctx)

	switch state {
	case session.StateAuthenticated:
		r.writePlain("✓ Authenticated\n")
	case session.StateUnauthenticated:
		r.writePlain("✗ Not authenticated\n")
	default:
		r.writePlain("Status: %s\n", state)
	}

	if token := r.gate.Token(); token != "" {
		if expiry, ok := session.TokenExpiry(token); ok {
			if time.Now().After(expiry) {
				r.writePlain("Token expired at %s\n", expiry.Format(time.RFC3339))
			} else {
				r.writePlain("Token valid until %s\n", expiry.Format(time.RFC3339))
			}
		}
	}

	return nil
}

// AuthLogout discards the stored session.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if r.gate == nil {
		return fmt.Errorf("%w: no local database", shared.ErrMissingConfig)
	}

	if err := r.gate.Logout(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return r.writePlain("✓ Logged out\n")
}

// AuthImport extracts a bearer token from a browser cURL command and stores
// it as the current session.
func (r *Runner) AuthImport(ctx context.Context, cmd *cli.Command) error {
	curlCmd := cmd.String("curl")
	curlFile := cmd.String("curl-file")

	var parsed *shared.CurlSession
	var err error

	switch {
	case curlFile != "":
		parsed, err = shared.ParseCurlFile(curlFile)
	case curlCmd != "":
		parsed, err = shared.ParseCurlCommand([]byte(curlCmd))
	default:
		return fmt.Errorf("%w: provide --curl or --curl-file", shared.ErrMissingArgument)
	}
	if err != nil {
		return err
	}

	r.svc.SetToken(parsed.Token)
	if r.gate != nil {
		if err := r.gate.Login(parsed.Token, "", ""); err != nil {
			return fmt.Errorf("failed to persist session: %w", err)
		}
	}

	if expiry, ok := session.TokenExpiry(parsed.Token); ok {
		r.writePlain("Token valid until %s\n", expiry.Format(time.RFC3339))
	}
	return r.writePlain("✓ Session imported\n")
}

// requireAuth validates the stored session and installs its token on the
// service. Fails closed: any state other than Authenticated is an error.
func (r *Runner) requireAuth(ctx context.Context) error {
	if r.gate == nil {
		return fmt.Errorf("%w: not logged in (run `novtok auth login`)", shared.ErrNotAuthenticated)
	}

	if state := r.gate.Check(ctx); state != session.StateAuthenticated {
		return fmt.Errorf("%w: session state %s", shared.ErrNotAuthenticated, state)
	}

	r.svc.SetToken(r.gate.Token())
	return nil
}
