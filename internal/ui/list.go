package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/vaultx/vaultx/internal/models"
)

var (
	_ list.Item = accountItem{}
	_ list.Item = groupItem{}
)

// accountItem wraps [models.Account] to implement [list.Item].
type accountItem struct {
	account models.Account
}

func (i accountItem) FilterValue() string { return i.account.ID }
func (i accountItem) Title() string       { return i.account.ID }
func (i accountItem) Description() string {
	desc := fmt.Sprintf("%s • server %d", i.account.RoleName, i.account.ServerID)
	if i.account.Cookies != nil {
		desc = fmt.Sprintf("%s • %d cookies", desc, len(i.account.Cookies))
	}
	return desc
}

// groupItem wraps [models.Group] to implement [list.Item].
type groupItem struct {
	group models.Group
}

func (i groupItem) FilterValue() string { return i.group.Name }
func (i groupItem) Title() string       { return fmt.Sprintf("%s (%s)", i.group.Name, i.group.ID) }
func (i groupItem) Description() string {
	desc := fmt.Sprintf("%d accounts", len(i.group.AccountIDs))
	if i.group.Description != nil && *i.group.Description != "" {
		desc = fmt.Sprintf("%s • %s", desc, *i.group.Description)
	}
	return desc
}
