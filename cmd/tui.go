package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/faddix/aninote/internal/session"
	"github.com/faddix/aninote/internal/shared"
	"github.com/faddix/aninote/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for browsing and editing notes.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.lookup == nil {
		return fmt.Errorf("%w: AniList lookup not initialized", shared.ErrServiceUnavailable)
	}

	engine, err := r.ensureEngine()
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/aninote-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	sess := session.New(r.mode())
	model := ui.NewModel(ctx, sess, engine, r.lookup)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
