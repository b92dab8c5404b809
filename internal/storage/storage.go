package storage

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/vaultx/vaultx/internal/models"
	"github.com/vaultx/vaultx/internal/shared"
)

// Kind identifies a storage backend implementation.
type Kind string

const (
	KindSqlite Kind = "sqlite"
	KindMongo  Kind = "mongodb"
)

// ParseKind converts a CLI/config string into a [Kind].
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindSqlite, KindMongo:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("%w: %q (expected %q or %q)", shared.ErrUnknownKind, s, KindSqlite, KindMongo)
	}
}

// DecodePolicy controls how a backend treats a stored cookies or
// account_ids value that fails to decode.
type DecodePolicy int

const (
	// DecodeLenient silently normalizes a malformed value to its
	// absent/empty form. This matches the tool's historical behavior but
	// can hide silent data loss.
	DecodeLenient DecodePolicy = iota
	// DecodeStrict surfaces the malformed value as a read error.
	DecodeStrict
)

// Backend is the capability surface every storage kind implements.
//
// Connect must be called exactly once before any read or write; Close is
// idempotent and safe without a prior successful Connect. EnsureSchema is
// idempotent and a no-op for schemaless backends.
type Backend interface {
	Connect(ctx context.Context) error
	Close(ctx context.Context) error
	EnsureSchema(ctx context.Context) error
	ReadAccounts(ctx context.Context) ([]models.Account, error)
	ReadGroups(ctx context.Context) ([]models.Group, error)
	WriteAccounts(ctx context.Context, accounts []models.Account) error
	WriteGroups(ctx context.Context, groups []models.Group) error

	// Kind returns the backend's storage kind tag.
	Kind() Kind
	// Name returns a short human-readable endpoint description for logs
	// and progress output.
	Name() string
}

// Options contains the kind tag and kind-specific connection parameters
// for [New].
type Options struct {
	Kind     Kind
	Path     string // sqlite: database file path
	URI      string // mongodb: connection endpoint
	Database string // mongodb: logical database name
	Decode   DecodePolicy
	Logger   *log.Logger
}

// New constructs the backend matching opts.Kind. Required parameters are
// validated eagerly; a missing one fails with [shared.ErrMissingConfig]
// before any file or network I/O happens.
func New(opts Options) (Backend, error) {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	switch opts.Kind {
	case KindSqlite:
		if opts.Path == "" {
			return nil, fmt.Errorf("%w: sqlite backend requires a path", shared.ErrMissingConfig)
		}
		return NewSqliteBackend(opts.Path, opts.Decode, opts.Logger), nil
	case KindMongo:
		if opts.URI == "" || opts.Database == "" {
			return nil, fmt.Errorf("%w: mongodb backend requires a uri and a database", shared.ErrMissingConfig)
		}
		return NewMongoBackend(opts.URI, opts.Database, opts.Decode, opts.Logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", shared.ErrUnknownKind, opts.Kind)
	}
}
