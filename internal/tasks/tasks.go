package tasks

import (
	"context"
	"fmt"

	"github.com/vaultx/vaultx/internal/models"
	"github.com/vaultx/vaultx/internal/storage"
	"golang.org/x/time/rate"
)

// Options controls one migration run.
type Options struct {
	DryRun      bool    // Stop after the report step, never touch the target
	SkipCookies bool    // Strip cookies from the in-memory working copy
	Throttle    float64 // Upserts per second during writes, 0 disables
}

// MigrateResult contains all data from one migration run.
type MigrateResult struct {
	Accounts []models.Account // Working copy that was (or would be) written
	Groups   []models.Group
	DryRun   bool
}

// Mismatch describes one id whose records differ between source and target.
type Mismatch struct {
	ID     string
	Detail string
}

// VerifyResult contains the outcome of comparing source against target.
type VerifyResult struct {
	AccountsChecked    int
	GroupsChecked      int
	MissingAccounts    []string // Present in source, absent in target
	MissingGroups      []string
	ExtraAccounts      []string // Present in target, absent in source
	ExtraGroups        []string
	MismatchedAccounts []Mismatch
	MismatchedGroups   []Mismatch
}

// Clean reports whether the two stores held model-equal datasets.
func (r *VerifyResult) Clean() bool {
	return len(r.MissingAccounts) == 0 && len(r.MissingGroups) == 0 &&
		len(r.ExtraAccounts) == 0 && len(r.ExtraGroups) == 0 &&
		len(r.MismatchedAccounts) == 0 && len(r.MismatchedGroups) == 0
}

// Engine orchestrates migration operations between two connected backends.
type Engine struct {
	source storage.Backend
	target storage.Backend
}

// NewEngine creates an Engine over an already-connected source and target.
func NewEngine(source, target storage.Backend) *Engine {
	return &Engine{source: source, target: target}
}

// Run performs one migration: read everything from the source, apply the
// optional cookie strip to the working copy, report each record, and
// (unless dry-run) ensure the target schema and upsert accounts then
// groups. Any read or write failure aborts the remaining steps; records
// already written stay written.
func (e *Engine) Run(ctx context.Context, opts Options, progress chan<- ProgressUpdate) (*MigrateResult, error) {
	accounts, groups, err := e.readSource(ctx, progress)
	if err != nil {
		return nil, err
	}

	if opts.SkipCookies {
		e.sendProgress(progress, stripCookiesUpdate(len(accounts)))
		for i := range accounts {
			accounts[i].Cookies = nil
		}
	}

	for i, acc := range accounts {
		e.sendProgress(progress, accountSummaryUpdate(i+1, len(accounts), acc))
	}
	for i, grp := range groups {
		e.sendProgress(progress, groupSummaryUpdate(i+1, len(groups), grp))
	}

	result := &MigrateResult{Accounts: accounts, Groups: groups, DryRun: opts.DryRun}
	if opts.DryRun {
		return result, nil
	}

	if err := e.target.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure target schema: %w", err)
	}

	if err := e.writeAccounts(ctx, opts, accounts); err != nil {
		return nil, err
	}
	e.sendProgress(progress, wroteAccountsUpdate(len(accounts)))

	if err := e.writeGroups(ctx, opts, groups); err != nil {
		return nil, err
	}
	e.sendProgress(progress, wroteGroupsUpdate(len(groups)))

	return result, nil
}

// Verify reads both stores and reports every id that is missing, extra,
// or model-unequal on the target side. Soft references are not checked.
func (e *Engine) Verify(ctx context.Context, progress chan<- ProgressUpdate) (*VerifyResult, error) {
	sourceAccounts, sourceGroups, err := e.readSource(ctx, progress)
	if err != nil {
		return nil, err
	}

	targetAccounts, err := e.target.ReadAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read target accounts: %w", err)
	}
	targetGroups, err := e.target.ReadGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read target groups: %w", err)
	}

	result := &VerifyResult{
		AccountsChecked: len(sourceAccounts),
		GroupsChecked:   len(sourceGroups),
	}

	e.sendProgress(progress, compareUpdate("accounts", len(sourceAccounts)))
	targetAccountsByID := make(map[string]models.Account, len(targetAccounts))
	for _, acc := range targetAccounts {
		targetAccountsByID[acc.ID] = acc
	}
	for _, acc := range sourceAccounts {
		found, ok := targetAccountsByID[acc.ID]
		if !ok {
			result.MissingAccounts = append(result.MissingAccounts, acc.ID)
			continue
		}
		if !acc.Equal(found) {
			result.MismatchedAccounts = append(result.MismatchedAccounts, Mismatch{
				ID:     acc.ID,
				Detail: "account fields differ between source and target",
			})
		}
		delete(targetAccountsByID, acc.ID)
	}
	for _, acc := range targetAccounts {
		if _, stillExtra := targetAccountsByID[acc.ID]; stillExtra {
			result.ExtraAccounts = append(result.ExtraAccounts, acc.ID)
		}
	}

	e.sendProgress(progress, compareUpdate("groups", len(sourceGroups)))
	targetGroupsByID := make(map[string]models.Group, len(targetGroups))
	for _, grp := range targetGroups {
		targetGroupsByID[grp.ID] = grp
	}
	for _, grp := range sourceGroups {
		found, ok := targetGroupsByID[grp.ID]
		if !ok {
			result.MissingGroups = append(result.MissingGroups, grp.ID)
			continue
		}
		if !grp.Equal(found) {
			result.MismatchedGroups = append(result.MismatchedGroups, Mismatch{
				ID:     grp.ID,
				Detail: "group fields differ between source and target",
			})
		}
		delete(targetGroupsByID, grp.ID)
	}
	for _, grp := range targetGroups {
		if _, stillExtra := targetGroupsByID[grp.ID]; stillExtra {
			result.ExtraGroups = append(result.ExtraGroups, grp.ID)
		}
	}

	return result, nil
}

// readSource fetches both entity lists and clones them so later transform
// steps never alias the source backend's data.
func (e *Engine) readSource(ctx context.Context, progress chan<- ProgressUpdate) ([]models.Account, []models.Group, error) {
	rawAccounts, err := e.source.ReadAccounts(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read source accounts: %w", err)
	}
	e.sendProgress(progress, readAccountsUpdate(len(rawAccounts)))

	rawGroups, err := e.source.ReadGroups(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read source groups: %w", err)
	}
	e.sendProgress(progress, readGroupsUpdate(len(rawGroups)))

	accounts := make([]models.Account, len(rawAccounts))
	for i, acc := range rawAccounts {
		accounts[i] = acc.Clone()
	}
	groups := make([]models.Group, len(rawGroups))
	for i, grp := range rawGroups {
		groups[i] = grp.Clone()
	}

	return accounts, groups, nil
}

// writeAccounts upserts the batch, one record per limiter tick when a
// throttle is set.
func (e *Engine) writeAccounts(ctx context.Context, opts Options, accounts []models.Account) error {
	if opts.Throttle <= 0 {
		if err := e.target.WriteAccounts(ctx, accounts); err != nil {
			return fmt.Errorf("failed to write accounts: %w", err)
		}
		return nil
	}

	limiter := rate.NewLimiter(rate.Limit(opts.Throttle), 1)
	for _, acc := range accounts {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}
		if err := e.target.WriteAccounts(ctx, []models.Account{acc}); err != nil {
			return fmt.Errorf("failed to write accounts: %w", err)
		}
	}
	return nil
}

func (e *Engine) writeGroups(ctx context.Context, opts Options, groups []models.Group) error {
	if opts.Throttle <= 0 {
		if err := e.target.WriteGroups(ctx, groups); err != nil {
			return fmt.Errorf("failed to write groups: %w", err)
		}
		return nil
	}

	limiter := rate.NewLimiter(rate.Limit(opts.Throttle), 1)
	for _, grp := range groups {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}
		if err := e.target.WriteGroups(ctx, []models.Group{grp}); err != nil {
			return fmt.Errorf("failed to write groups: %w", err)
		}
	}
	return nil
}

// sendProgress safely sends an update, dropping it if no consumer is keeping up.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
