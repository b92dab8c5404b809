package models

import "testing"

func strptr(s string) *string { return &s }

func TestAccountClone(t *testing.T) {
	t.Run("deep copies cookies", func(t *testing.T) {
		acc := Account{
			ID:       "a1",
			RoleName: "admin",
			Cookies:  []Cookie{{"name": "sid", "value": "x"}},
		}

		clone := acc.Clone()
		clone.Cookies[0]["value"] = "mutated"

		if acc.Cookies[0]["value"] != "x" {
			t.Errorf("mutating a clone changed the original cookie: %v", acc.Cookies[0])
		}
	})

	t.Run("preserves nil cookies", func(t *testing.T) {
		acc := Account{ID: "a1"}
		if clone := acc.Clone(); clone.Cookies != nil {
			t.Errorf("expected nil cookies on clone, got %v", clone.Cookies)
		}
	})

	t.Run("preserves empty cookies", func(t *testing.T) {
		acc := Account{ID: "a1", Cookies: []Cookie{}}
		if clone := acc.Clone(); clone.Cookies == nil {
			t.Error("expected non-nil empty cookies on clone, got nil")
		}
	})
}

func TestAccountEqual(t *testing.T) {
	base := Account{
		ID:       "a1",
		RoleName: "admin",
		UserName: "u",
		Password: "p",
		ServerID: 1,
		Cookies:  []Cookie{{"name": "sid", "value": "x"}},
	}

	t.Run("equal to its clone", func(t *testing.T) {
		if !base.Equal(base.Clone()) {
			t.Error("account should equal its clone")
		}
	})

	t.Run("nil and empty cookies differ", func(t *testing.T) {
		a := Account{ID: "a1"}
		b := Account{ID: "a1", Cookies: []Cookie{}}
		if a.Equal(b) {
			t.Error("nil cookies should not equal empty cookies")
		}
	})

	t.Run("cookie content differs", func(t *testing.T) {
		other := base.Clone()
		other.Cookies[0]["value"] = "y"
		if base.Equal(other) {
			t.Error("accounts with different cookie values should differ")
		}
	})
}

func TestGroupClone(t *testing.T) {
	grp := Group{
		ID:          "g1",
		Name:        "G",
		Description: strptr("desc"),
		AccountIDs:  []string{"a1", "a2"},
	}

	clone := grp.Clone()
	clone.AccountIDs[0] = "mutated"
	*clone.Description = "mutated"

	if grp.AccountIDs[0] != "a1" {
		t.Errorf("mutating a clone changed the original member list: %v", grp.AccountIDs)
	}
	if *grp.Description != "desc" {
		t.Errorf("mutating a clone changed the original description: %v", *grp.Description)
	}
}

func TestGroupEqual(t *testing.T) {
	base := Group{ID: "g1", Name: "G", AccountIDs: []string{"a1", "a2"}}

	t.Run("member order is significant", func(t *testing.T) {
		reordered := base.Clone()
		reordered.AccountIDs = []string{"a2", "a1"}
		if base.Equal(reordered) {
			t.Error("groups with reordered members should differ")
		}
	})

	t.Run("nil description vs set description", func(t *testing.T) {
		described := base.Clone()
		described.Description = strptr("")
		if base.Equal(described) {
			t.Error("nil description should not equal an empty string description")
		}
	})
}

func TestValidate(t *testing.T) {
	t.Run("account requires id", func(t *testing.T) {
		acc := Account{RoleName: "admin"}
		if err := acc.Validate(); err == nil {
			t.Error("expected validation error for account without id")
		}
	})

	t.Run("group requires id and name", func(t *testing.T) {
		grp := Group{ID: "g1"}
		if err := grp.Validate(); err == nil {
			t.Error("expected validation error for group without name")
		}
	})
}
