// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"os"
	"sort"
	"testing"

	"github.com/vaultx/vaultx/internal/models"
	"github.com/vaultx/vaultx/internal/shared"
	"github.com/vaultx/vaultx/internal/storage"
)

// MockBackend is an in-memory test double for [storage.Backend].
type MockBackend struct {
	BackendKind storage.Kind
	Accounts    map[string]models.Account
	Groups      map[string]models.Group

	Connected     bool
	SchemaEnsured bool
	CloseCount    int

	ConnectErr error
	ReadErr    error
	WriteErr   error
}

// NewMockBackend returns an empty, unconnected mock.
func NewMockBackend(kind storage.Kind) *MockBackend {
	return &MockBackend{
		BackendKind: kind,
		Accounts:    map[string]models.Account{},
		Groups:      map[string]models.Group{},
	}
}

func (m *MockBackend) Kind() storage.Kind { return m.BackendKind }
func (m *MockBackend) Name() string       { return "mock (" + string(m.BackendKind) + ")" }

func (m *MockBackend) Connect(ctx context.Context) error {
	if m.ConnectErr != nil {
		return m.ConnectErr
	}
	m.Connected = true
	return nil
}

func (m *MockBackend) Close(ctx context.Context) error {
	m.CloseCount++
	m.Connected = false
	return nil
}

func (m *MockBackend) EnsureSchema(ctx context.Context) error {
	if !m.Connected {
		return shared.ErrNotConnected
	}
	m.SchemaEnsured = true
	return nil
}

func (m *MockBackend) ReadAccounts(ctx context.Context) ([]models.Account, error) {
	if !m.Connected {
		return nil, shared.ErrNotConnected
	}
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}

	ids := make([]string, 0, len(m.Accounts))
	for id := range m.Accounts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	accounts := make([]models.Account, 0, len(ids))
	for _, id := range ids {
		accounts = append(accounts, m.Accounts[id].Clone())
	}
	return accounts, nil
}

func (m *MockBackend) ReadGroups(ctx context.Context) ([]models.Group, error) {
	if !m.Connected {
		return nil, shared.ErrNotConnected
	}
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}

	ids := make([]string, 0, len(m.Groups))
	for id := range m.Groups {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	groups := make([]models.Group, 0, len(ids))
	for _, id := range ids {
		groups = append(groups, m.Groups[id].Clone())
	}
	return groups, nil
}

func (m *MockBackend) WriteAccounts(ctx context.Context, accounts []models.Account) error {
	if !m.Connected {
		return shared.ErrNotConnected
	}
	if m.WriteErr != nil {
		return m.WriteErr
	}
	for _, acc := range accounts {
		m.Accounts[acc.ID] = acc.Clone()
	}
	return nil
}

func (m *MockBackend) WriteGroups(ctx context.Context, groups []models.Group) error {
	if !m.Connected {
		return shared.ErrNotConnected
	}
	if m.WriteErr != nil {
		return m.WriteErr
	}
	for _, grp := range groups {
		m.Groups[grp.ID] = grp.Clone()
	}
	return nil
}

var _ storage.Backend = (*MockBackend)(nil)

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
