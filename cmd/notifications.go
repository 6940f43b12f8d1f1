package main

import (
	"context"

	"github.com/urfave/cli/v3"
)

// NotificationsRead marks all of the user's notifications as read.
func (r *Runner) NotificationsRead(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(ctx); err != nil {
		return err
	}

	if err := r.svc.MarkNotificationsRead(ctx); err != nil {
		r.gate.HandleUnauthorized(err)
		return err
	}
	return r.writePlain("✓ All notifications marked read\n")
}
