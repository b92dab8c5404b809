package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"github.com/vaultx/vaultx/internal/storage"
	"github.com/vaultx/vaultx/internal/tasks"
)

// VerifyRun compares the target store against the source and reports every
// id that is missing, extra, or holds different field values.
func (r *Runner) VerifyRun(ctx context.Context, cmd *cli.Command) error {
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

	source, err := r.newBackend(sourceOpts)
	if err != nil {
		return err
	}
	target, err := r.newBackend(targetOpts)
	if err != nil {
		return err
	}

	defer func() {
		if err := source.Close(ctx); err != nil {
			r.logger.Warn("failed to close source", "error", err)
		}
		if err := target.Close(ctx); err != nil {
			r.logger.Warn("failed to close target", "error", err)
		}
	}()

	if err := source.Connect(ctx); err != nil {
		return fmt.Errorf("source: %w", err)
	}
	if err := target.Connect(ctx); err != nil {
		return fmt.Errorf("target: %w", err)
	}

	r.writePlainHeader("vaultx verify")
	r.writePlain("Source: %s\n", source.Name())
	r.writePlain("Target: %s\n\n", target.Name())

	engine := tasks.NewEngine(source, target)
	result, err := engine.Verify(ctx, nil)
	if err != nil {
		return err
	}

	r.writePlain("Checked %d accounts, %d groups\n", result.AccountsChecked, result.GroupsChecked)

	if result.Clean() {
		r.writePlain("✓ Stores match\n")
		return nil
	}

	for _, id := range result.MissingAccounts {
		r.writePlain("✗ account %s missing from target\n", id)
	}
	for _, id := range result.MissingGroups {
		r.writePlain("✗ group %s missing from target\n", id)
	}
	for _, id := range result.ExtraAccounts {
		r.writePlain("✗ account %s only in target\n", id)
	}
	for _, id := range result.ExtraGroups {
		r.writePlain("✗ group %s only in target\n", id)
	}
	for _, mismatch := range result.MismatchedAccounts {
		r.writePlain("✗ account %s: %s\n", mismatch.ID, mismatch.Detail)
	}
	for _, mismatch := range result.MismatchedGroups {
		r.writePlain("✗ group %s: %s\n", mismatch.ID, mismatch.Detail)
	}

	return fmt.Errorf("stores differ: %d account and %d group discrepancies",
		len(result.MissingAccounts)+len(result.ExtraAccounts)+len(result.MismatchedAccounts),
		len(result.MissingGroups)+len(result.ExtraGroups)+len(result.MismatchedGroups))
}
