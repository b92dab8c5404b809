package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	_ "github.com/mattn/go-sqlite3"
	"github.com/vaultx/vaultx/internal/models"
	"github.com/vaultx/vaultx/internal/shared"
)

const createAccountsTable = `
	CREATE TABLE IF NOT EXISTS accounts (
		id TEXT PRIMARY KEY,
		role_name TEXT NOT NULL,
		user_name TEXT NOT NULL,
		password TEXT NOT NULL,
		server_id INTEGER NOT NULL,
		ranking INTEGER DEFAULT 0,
		cookies TEXT
	)
`

const createGroupsTable = `
	CREATE TABLE IF NOT EXISTS groups (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		account_ids TEXT NOT NULL,
		ranking INTEGER DEFAULT 0
	)
`

// SqliteBackend implements [Backend] over a SQLite database file.
//
// Cookies and account membership lists are stored as JSON text columns;
// cookies is NULL when the field was never stored and "[]" when it was
// stored with zero entries.
type SqliteBackend struct {
	path   string
	decode DecodePolicy
	db     *sql.DB
	logger *log.Logger
}

// NewSqliteBackend creates an unconnected backend for the database file at path.
func NewSqliteBackend(path string, decode DecodePolicy, logger *log.Logger) *SqliteBackend {
	return &SqliteBackend{path: path, decode: decode, logger: logger}
}

func (b *SqliteBackend) Kind() Kind { return KindSqlite }

func (b *SqliteBackend) Name() string { return fmt.Sprintf("sqlite (%s)", b.path) }

// Connect opens the database file, creating parent directories as needed,
// and pings the handle to surface unreachable or unwritable paths early.
func (b *SqliteBackend) Connect(ctx context.Context) error {
	if b.path != ":memory:" {
		if dir := filepath.Dir(b.path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("%w: failed to create %s: %v", shared.ErrConnectionFailed, dir, err)
			}
		}
	}

	db, err := sql.Open("sqlite3", b.path)
	if err != nil {
		return fmt.Errorf("%w: failed to open %s: %v", shared.ErrConnectionFailed, b.path, err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("%w: failed to ping %s: %v", shared.ErrConnectionFailed, b.path, err)
	}

	b.db = db
	b.logger.Debug("connected to sqlite", "path", b.path)
	return nil
}

// Close releases the database handle. Safe to call repeatedly or without
// a prior successful Connect.
func (b *SqliteBackend) Close(ctx context.Context) error {
	if b.db == nil {
		return nil
	}
	err := b.db.Close()
	b.db = nil
	return err
}

// EnsureSchema creates the accounts and groups tables if absent.
func (b *SqliteBackend) EnsureSchema(ctx context.Context) error {
	if b.db == nil {
		return shared.ErrNotConnected
	}

	for _, stmt := range []string{createAccountsTable, createGroupsTable} {
		if _, err := b.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%w: failed to create schema: %v", shared.ErrWrite, err)
		}
	}

	return nil
}

// ReadAccounts returns every account ordered ascending by id.
func (b *SqliteBackend) ReadAccounts(ctx context.Context) ([]models.Account, error) {
	if b.db == nil {
		return nil, shared.ErrNotConnected
	}

	query := `
		SELECT id, role_name, user_name, password, server_id, ranking, cookies
		FROM accounts
		ORDER BY id ASC
	`

	rows, err := b.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query accounts: %v", shared.ErrRead, err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var (
			acc      models.Account
			serverID sql.NullInt64
			ranking  sql.NullInt64
			cookies  sql.NullString
		)

		if err := rows.Scan(&acc.ID, &acc.RoleName, &acc.UserName, &acc.Password, &serverID, &ranking, &cookies); err != nil {
			return nil, fmt.Errorf("%w: failed to scan account: %v", shared.ErrRead, err)
		}

		acc.ServerID = int(serverID.Int64)
		acc.Ranking = int(ranking.Int64)

		acc.Cookies, err = b.decodeCookies(acc.ID, cookies)
		if err != nil {
			return nil, err
		}

		accounts = append(accounts, acc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: row iteration error: %v", shared.ErrRead, err)
	}

	return accounts, nil
}

// ReadGroups returns every group ordered ascending by id.
func (b *SqliteBackend) ReadGroups(ctx context.Context) ([]models.Group, error) {
	if b.db == nil {
		return nil, shared.ErrNotConnected
	}

	query := `
		SELECT id, name, description, account_ids, ranking
		FROM groups
		ORDER BY id ASC
	`

	rows, err := b.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query groups: %v", shared.ErrRead, err)
	}
	defer rows.Close()

	var groups []models.Group
	for rows.Next() {
		var (
			grp         models.Group
			description sql.NullString
			accountIDs  string
			ranking     sql.NullInt64
		)

		if err := rows.Scan(&grp.ID, &grp.Name, &description, &accountIDs, &ranking); err != nil {
			return nil, fmt.Errorf("%w: failed to scan group: %v", shared.ErrRead, err)
		}

		if description.Valid {
			grp.Description = &description.String
		}
		grp.Ranking = int(ranking.Int64)

		grp.AccountIDs, err = b.decodeAccountIDs(grp.ID, accountIDs)
		if err != nil {
			return nil, err
		}

		groups = append(groups, grp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: row iteration error: %v", shared.ErrRead, err)
	}

	return groups, nil
}

// WriteAccounts upserts every account by id. A failing record does not
// stop the rest of the batch; collected failures are returned joined.
func (b *SqliteBackend) WriteAccounts(ctx context.Context, accounts []models.Account) error {
	if b.db == nil {
		return shared.ErrNotConnected
	}

	query := `
		INSERT OR REPLACE INTO accounts (id, role_name, user_name, password, server_id, ranking, cookies)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	var errs []error
	for _, acc := range accounts {
		var cookies any
		if acc.Cookies != nil {
			encoded, err := json.Marshal(acc.Cookies)
			if err != nil {
				errs = append(errs, fmt.Errorf("%w: failed to encode cookies for account %s: %v", shared.ErrWrite, acc.ID, err))
				continue
			}
			cookies = string(encoded)
		}

		if _, err := b.db.ExecContext(ctx, query, acc.ID, acc.RoleName, acc.UserName, acc.Password, acc.ServerID, acc.Ranking, cookies); err != nil {
			errs = append(errs, fmt.Errorf("%w: failed to upsert account %s: %v", shared.ErrWrite, acc.ID, err))
		}
	}

	return errors.Join(errs...)
}

// WriteGroups upserts every group by id.
func (b *SqliteBackend) WriteGroups(ctx context.Context, groups []models.Group) error {
	if b.db == nil {
		return shared.ErrNotConnected
	}

	query := `
		INSERT OR REPLACE INTO groups (id, name, description, account_ids, ranking)
		VALUES (?, ?, ?, ?, ?)
	`

	var errs []error
	for _, grp := range groups {
		ids := grp.AccountIDs
		if ids == nil {
			ids = []string{}
		}
		encoded, err := json.Marshal(ids)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: failed to encode members for group %s: %v", shared.ErrWrite, grp.ID, err))
			continue
		}

		if _, err := b.db.ExecContext(ctx, query, grp.ID, grp.Name, grp.Description, string(encoded), grp.Ranking); err != nil {
			errs = append(errs, fmt.Errorf("%w: failed to upsert group %s: %v", shared.ErrWrite, grp.ID, err))
		}
	}

	return errors.Join(errs...)
}

// decodeCookies turns the stored cookies column into model form. NULL and
// empty text read as absent; malformed JSON follows the decode policy.
func (b *SqliteBackend) decodeCookies(id string, stored sql.NullString) ([]models.Cookie, error) {
	if !stored.Valid || stored.String == "" {
		return nil, nil
	}

	var cookies []models.Cookie
	if err := json.Unmarshal([]byte(stored.String), &cookies); err != nil {
		if b.decode == DecodeStrict {
			return nil, fmt.Errorf("%w: cookies for account %s: %v", shared.ErrDecode, id, err)
		}
		b.logger.Warn("dropping malformed cookies value", "account", id, "error", err)
		return nil, nil
	}
	return cookies, nil
}

// decodeAccountIDs turns the stored account_ids column into model form.
// Malformed JSON follows the decode policy, degrading to an empty list.
func (b *SqliteBackend) decodeAccountIDs(id string, stored string) ([]string, error) {
	if stored == "" {
		return []string{}, nil
	}

	var ids []string
	if err := json.Unmarshal([]byte(stored), &ids); err != nil {
		if b.decode == DecodeStrict {
			return nil, fmt.Errorf("%w: account_ids for group %s: %v", shared.ErrDecode, id, err)
		}
		b.logger.Warn("dropping malformed account_ids value", "group", id, "error", err)
		return []string{}, nil
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

var _ Backend = (*SqliteBackend)(nil)
