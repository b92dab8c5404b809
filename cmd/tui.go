package main

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"
	"github.com/vaultx/vaultx/internal/shared"
	"github.com/vaultx/vaultx/internal/storage"
	"github.com/vaultx/vaultx/internal/ui"
)

// BrowseTUI opens the interactive browser over one store.
func (r *Runner) BrowseTUI(ctx context.Context, cmd *cli.Command) error {
	opts, err := r.endpointOptions(cmd, "", r.config.Source, storage.DecodeLenient)
	if err != nil {
		return err
	}

	// Log to a file while the TUI owns the terminal.
	if fileLogger, err := shared.NewFileLogger("vaultx.log"); err == nil {
		opts.Logger = fileLogger
	}

	backend, err := r.newBackend(opts)
	if err != nil {
		return err
	}
	defer func() {
		if err := backend.Close(ctx); err != nil {
			r.logger.Warn("failed to close store", "error", err)
		}
	}()

	if err := backend.Connect(ctx); err != nil {
		return err
	}

	model := ui.NewModel(ctx, backend)
	program := tea.NewProgram(model, tea.WithAltScreen())

	final, err := program.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(*ui.Model); ok {
		return m.Err()
	}

	return nil
}
