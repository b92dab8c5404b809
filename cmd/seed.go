package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"github.com/vaultx/vaultx/internal/models"
	"github.com/vaultx/vaultx/internal/shared"
	"github.com/vaultx/vaultx/internal/storage"
)

// SeedRun writes generated sample accounts and groups into a store. Useful
// for trying out a migration before pointing the tool at real data.
func (r *Runner) SeedRun(ctx context.Context, cmd *cli.Command) error {
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
	if err := backend.EnsureSchema(ctx); err != nil {
		return err
	}

	accountCount := int(cmd.Int("accounts"))
	groupCount := int(cmd.Int("groups"))

	accounts := make([]models.Account, 0, accountCount)
	for i := 0; i < accountCount; i++ {
		accounts = append(accounts, models.Account{
			ID:       shared.GenerateID(),
			RoleName: fmt.Sprintf("sample-role-%d", i+1),
			UserName: fmt.Sprintf("sample-user-%d", i+1),
			Password: "changeme",
			ServerID: 1,
			Ranking:  i + 1,
			Cookies: []models.Cookie{
				{"name": "session", "value": shared.GenerateID(), "domain": "example.com"},
			},
		})
	}

	memberIDs := make([]string, 0, len(accounts))
	for _, acc := range accounts {
		memberIDs = append(memberIDs, acc.ID)
	}

	groups := make([]models.Group, 0, groupCount)
	for i := 0; i < groupCount; i++ {
		description := fmt.Sprintf("Generated sample group %d", i+1)
		groups = append(groups, models.Group{
			ID:          shared.GenerateID(),
			Name:        fmt.Sprintf("sample-group-%d", i+1),
			Description: &description,
			AccountIDs:  memberIDs,
			Ranking:     i + 1,
		})
	}

	if err := backend.WriteAccounts(ctx, accounts); err != nil {
		return err
	}
	if err := backend.WriteGroups(ctx, groups); err != nil {
		return err
	}

	r.writePlain("✓ Seeded %d accounts and %d groups into %s\n", len(accounts), len(groups), backend.Name())
	return nil
}
