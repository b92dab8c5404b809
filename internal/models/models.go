package models

import (
	"fmt"
	"reflect"
)

// Cookie is a single session state blob. Keys and value shapes are opaque
// to vaultx; they are carried through migration untouched.
type Cookie map[string]any

// Account represents a stored credential set for one game server login.
type Account struct {
	ID       string   // Primary identity, upsert key in every backend
	RoleName string   // Display/character name
	UserName string   // Login name
	Password string   // Stored as-is; vaultx does not hash or redact
	ServerID int      // Numeric server identifier
	Ranking  int      // Sort weight, 0 when never set
	Cookies  []Cookie // nil = never stored, empty = stored with zero cookies
}

// Group represents a named, ordered collection of account references.
type Group struct {
	ID          string
	Name        string
	Description *string  // nil round-trips as a stored NULL
	AccountIDs  []string // Ordered soft references to Account.ID
	Ranking     int
}

// Validate checks that an account carries the identity every backend keys on.
func (a *Account) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("account is missing an id")
	}
	return nil
}

// Clone returns a deep copy of the account. The migration pipeline mutates
// its working copy (cookie stripping) and must never alias source data.
func (a Account) Clone() Account {
	out := a
	if a.Cookies != nil {
		out.Cookies = make([]Cookie, len(a.Cookies))
		for i, c := range a.Cookies {
			cp := make(Cookie, len(c))
			for k, v := range c {
				cp[k] = v
			}
			out.Cookies[i] = cp
		}
	}
	return out
}

// Equal reports whether two accounts hold identical logical content,
// including the nil-vs-empty cookies distinction.
func (a Account) Equal(b Account) bool {
	if a.ID != b.ID || a.RoleName != b.RoleName || a.UserName != b.UserName ||
		a.Password != b.Password || a.ServerID != b.ServerID || a.Ranking != b.Ranking {
		return false
	}
	if (a.Cookies == nil) != (b.Cookies == nil) {
		return false
	}
	if len(a.Cookies) != len(b.Cookies) {
		return false
	}
	for i := range a.Cookies {
		if !reflect.DeepEqual(a.Cookies[i], b.Cookies[i]) {
			return false
		}
	}
	return true
}

// Validate checks the fields every backend requires for a group row.
func (g *Group) Validate() error {
	if g.ID == "" {
		return fmt.Errorf("group is missing an id")
	}
	if g.Name == "" {
		return fmt.Errorf("group %s is missing a name", g.ID)
	}
	return nil
}

// Clone returns a deep copy of the group.
func (g Group) Clone() Group {
	out := g
	if g.Description != nil {
		desc := *g.Description
		out.Description = &desc
	}
	if g.AccountIDs != nil {
		out.AccountIDs = append([]string(nil), g.AccountIDs...)
	}
	return out
}

// Equal reports whether two groups hold identical logical content.
// AccountIDs ordering is significant; duplicates are not collapsed.
func (g Group) Equal(other Group) bool {
	if g.ID != other.ID || g.Name != other.Name || g.Ranking != other.Ranking {
		return false
	}
	if (g.Description == nil) != (other.Description == nil) {
		return false
	}
	if g.Description != nil && *g.Description != *other.Description {
		return false
	}
	if len(g.AccountIDs) != len(other.AccountIDs) {
		return false
	}
	for i := range g.AccountIDs {
		if g.AccountIDs[i] != other.AccountIDs[i] {
			return false
		}
	}
	return true
}
