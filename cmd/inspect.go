package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"github.com/vaultx/vaultx/internal/formatter"
	"github.com/vaultx/vaultx/internal/storage"
)

// InspectRun lists one store's accounts and groups in the requested format.
func (r *Runner) InspectRun(ctx context.Context, cmd *cli.Command) error {
	opts, err := r.endpointOptions(cmd, "", r.config.Source, storage.DecodeLenient)
	if err != nil {
		return err
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

	accounts, err := backend.ReadAccounts(ctx)
	if err != nil {
		return err
	}
	groups, err := backend.ReadGroups(ctx)
	if err != nil {
		return err
	}

	switch format := cmd.String("format"); format {
	case "text":
		return r.writePlain("%s", formatter.ToText(accounts, groups))
	case "json":
		data, err := formatter.ToJSON(accounts, groups)
		if err != nil {
			return err
		}
		return r.writePlain("%s\n", data)
	case "csv":
		accountCSV, err := formatter.AccountsToCSV(accounts)
		if err != nil {
			return err
		}
		groupCSV, err := formatter.GroupsToCSV(groups)
		if err != nil {
			return err
		}
		if err := r.writePlain("%s", accountCSV); err != nil {
			return err
		}
		return r.writePlain("%s", groupCSV)
	default:
		return fmt.Errorf("unknown format %q (want text, json, or csv)", format)
	}
}
