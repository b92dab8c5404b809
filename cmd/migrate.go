package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"github.com/vaultx/vaultx/internal/shared"
	"github.com/vaultx/vaultx/internal/storage"
	"github.com/vaultx/vaultx/internal/tasks"
)

// MigrateRun copies both entity batches from the source store to the target store.
func (r *Runner) MigrateRun(ctx context.Context, cmd *cli.Command) error {
	decode := storage.DecodeLenient
	if cmd.Bool("strict-decode") {
		decode = storage.DecodeStrict
	}

	sourceOpts, err := r.endpointOptions(cmd, "source", r.config.Source, decode)
	if err != nil {
		return err
	}
	targetOpts, err := r.endpointOptions(cmd, "target", r.config.Target, decode)
	if err != nil {
		return err
	}

	opts := tasks.Options{
		DryRun:      cmd.Bool("dry-run"),
		SkipCookies: cmd.Bool("skip-cookies"),
		Throttle:    cmd.Float("throttle"),
	}
	if opts.Throttle == 0 {
		opts.Throttle = r.config.Migrate.Throttle
	}

	mode := "EXECUTE"
	if opts.DryRun {
		mode = "DRY-RUN"
	}

	r.writePlainHeader("vaultx migration")
	r.writePlain("Source: %s\n", sourceOpts.Kind)
	r.writePlain("Target: %s\n", targetOpts.Kind)
	r.writePlain("Mode: %s\n", mode)
	r.writePlain("Skip cookies: %v\n\n", opts.SkipCookies)

	source, err := r.newBackend(sourceOpts)
	if err != nil {
		return err
	}
	target, err := r.newBackend(targetOpts)
	if err != nil {
		return err
	}

	// Both stores are closed on every exit path, connected or not.
	defer func() {
		if err := source.Close(ctx); err != nil {
			r.logger.Warn("failed to close source", "error", err)
		}
		if err := target.Close(ctx); err != nil {
			r.logger.Warn("failed to close target", "error", err)
		}
	}()

	r.writePlain("Connecting to source...\n")
	if err := source.Connect(ctx); err != nil {
		return fmt.Errorf("source: %w", err)
	}
	r.writePlain("✓ Source connected (%s)\n", source.Name())

	r.writePlain("Connecting to target...\n")
	if err := target.Connect(ctx); err != nil {
		return fmt.Errorf("target: %w", err)
	}
	r.writePlain("✓ Target connected (%s)\n\n", target.Name())

	if !opts.DryRun && !cmd.Bool("yes") {
		ok, err := r.confirm("This will write to the target. Continue?")
		if err != nil {
			return err
		}
		if !ok {
			r.writePlain("Aborted.\n")
			return shared.ErrAborted
		}
	}

	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			switch update.Phase {
			case tasks.ReadSource:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.Transform:
				r.writePlain("✂  %s\n", update.Message)
			case tasks.Report:
				r.writePlain("   %s\n", update.Message)
			case tasks.WriteTarget:
				r.writePlain("✓ %s\n", update.Message)
			}
		}
	}()

	engine := tasks.NewEngine(source, target)
	result, err := engine.Run(ctx, opts, progress)
	close(progress)
	<-done

	if err != nil {
		return err
	}

	if result.DryRun {
		r.writePlain("\n[DRY-RUN] Would write to target:\n")
		r.writePlain("  - %d accounts\n", len(result.Accounts))
		r.writePlain("  - %d groups\n", len(result.Groups))
		return nil
	}

	r.writePlain("\n")
	r.writePlainHeader("Migration complete")
	r.writePlain("Accounts: %d\n", len(result.Accounts))
	r.writePlain("Groups: %d\n", len(result.Groups))

	return nil
}
