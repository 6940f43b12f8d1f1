package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/novtok/internal/models"
	"github.com/desertthunder/novtok/internal/shared"
)

// ProfileShow prints the authenticated user's profile.
func (r *Runner) ProfileShow(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(ctx); err != nil {
		return err
	}

	profile, err := r.svc.Profile(ctx)
	if err != nil {
		r.gate.HandleUnauthorized(err)
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(profile, true)
	}

	r.writePlainHeader(profile.Name)
	r.writePlain("Email: %s\nRole: %s\n", profile.Email, profile.Role)
	if profile.Bio != "" {
		r.writePlain("Bio: %s\n", profile.Bio)
	}
	r.writePlain("Theme: %s  Language: %s\n", profile.Theme, profile.Language)
	if len(profile.ReadingPreferences) > 0 {
		r.writePlain("Interests: %s\n", strings.Join(profile.ReadingPreferences, ", "))
	}
	return nil
}

// ProfileUpdate applies flag values to the profile and saves it.
func (r *Runner) ProfileUpdate(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(ctx); err != nil {
		return err
	}

	profile, err := r.svc.Profile(ctx)
	if err != nil {
		r.gate.HandleUnauthorized(err)
		return err
	}

	changed := false
	for flag, dst := range map[string]*string{
		"name":     &profile.Name,
		"bio":      &profile.Bio,
		"theme":    &profile.Theme,
		"language": &profile.Language,
	} {
		if cmd.IsSet(flag) {
			*dst = cmd.String(flag)
			changed = true
		}
	}
	if !changed {
		return fmt.Errorf("%w: nothing to update", shared.ErrMissingArgument)
	}

	updated, err := r.svc.UpdateProfile(ctx, profile)
	if err != nil {
		r.gate.HandleUnauthorized(err)
		return err
	}
	return r.writePlain("✓ Profile updated for %s\n", updated.Name)
}

// ProfileAvatar uploads a new avatar image.
func (r *Runner) ProfileAvatar(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(ctx); err != nil {
		return err
	}

	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: avatar image path", shared.ErrMissingArgument)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read avatar image: %w", err)
	}

	url, err := r.svc.UploadAvatar(ctx, filepath.Base(path), data)
	if err != nil {
		r.gate.HandleUnauthorized(err)
		return fmt.Errorf("avatar upload failed: %w", err)
	}

	return r.writePlain("✓ Avatar updated: %s\n", url)
}

// ProfileInterests toggles a reading interest, or lists the available genres.
func (r *Runner) ProfileInterests(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("list") {
		for _, genre := range models.AvailableInterests {
			r.writePlain("%s\n", genre)
		}
		return nil
	}

	genre := cmd.StringArg("genre")
	if genre == "" {
		return fmt.Errorf("%w: genre (use --list to see options)", shared.ErrMissingArgument)
	}

	known := false
	for _, g := range models.AvailableInterests {
		if g == genre {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("%w: unknown genre %q", shared.ErrInvalidArgument, genre)
	}

	if err := r.requireAuth(ctx); err != nil {
		return err
	}

	profile, err := r.svc.Profile(ctx)
	if err != nil {
		r.gate.HandleUnauthorized(err)
		return err
	}

	profile.ToggleInterest(genre)

	updated, err := r.svc.UpdateProfile(ctx, profile)
	if err != nil {
		r.gate.HandleUnauthorized(err)
		return err
	}

	return r.writePlain("✓ Interests: %s\n", strings.Join(updated.ReadingPreferences, ", "))
}
