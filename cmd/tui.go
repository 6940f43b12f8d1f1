package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/novtok/internal/collection"
	"github.com/desertthunder/novtok/internal/repositories"
	"github.com/desertthunder/novtok/internal/shared"
	"github.com/desertthunder/novtok/internal/ui"
)

// TUI launches the interactive library browser and reader.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(ctx); err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/novtok-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	view := collection.NewView(r.svc, r.gate.UserID(), r.config.API.PageSize, fileLogger)

	// Reader activity lands in local history so achievements and goals move.
	var tracker ui.Recorder
	if r.db != nil {
		tracker = repositories.NewReadingTracker(repositories.NewHistoryRepository(r.db))
	}

	model := ui.NewModel(ctx, view, tracker)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
