package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/vaultx/vaultx/internal/models"
	"github.com/vaultx/vaultx/internal/storage"
)

// Pane identifies which entity list is active.
type Pane int

const (
	AccountsPane Pane = iota
	GroupsPane
)

// Model represents the store browser state.
type Model struct {
	ctx     context.Context
	backend storage.Backend
	pane    Pane
	loaded  bool
	width   int
	height  int

	accountList list.Model
	groupList   list.Model

	err  error
	help help.Model
	keys keyMap
}

type listingFetchedMsg struct {
	accounts []models.Account
	groups   []models.Group
	err      error
}

// NewModel creates a browser over an already-connected backend.
func NewModel(ctx context.Context, backend storage.Backend) *Model {
	return &Model{
		ctx:     ctx,
		backend: backend,
		pane:    AccountsPane,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Init initializes the TUI by fetching both entity listings.
func (m *Model) Init() tea.Cmd {
	return m.fetchListing()
}

// fetchListing reads both entity lists from the backend off the UI loop.
func (m *Model) fetchListing() tea.Cmd {
	return func() tea.Msg {
		accounts, err := m.backend.ReadAccounts(m.ctx)
		if err != nil {
			return listingFetchedMsg{err: err}
		}
		groups, err := m.backend.ReadGroups(m.ctx)
		if err != nil {
			return listingFetchedMsg{err: err}
		}
		return listingFetchedMsg{accounts: accounts, groups: groups}
	}
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.loaded {
			m.accountList.SetSize(msg.Width-4, msg.Height-8)
			m.groupList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab":
			if m.pane == AccountsPane {
				m.pane = GroupsPane
			} else {
				m.pane = AccountsPane
			}
			return m, nil
		}

	case listingFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}

		accountItems := make([]list.Item, len(msg.accounts))
		for i, acc := range msg.accounts {
			accountItems[i] = accountItem{account: acc}
		}
		m.accountList = list.New(accountItems, list.NewDefaultDelegate(), 0, 0)
		m.accountList.Title = fmt.Sprintf("Accounts — %s", m.backend.Name())
		m.accountList.SetSize(m.width-4, m.height-8)

		groupItems := make([]list.Item, len(msg.groups))
		for i, grp := range msg.groups {
			groupItems[i] = groupItem{group: grp}
		}
		m.groupList = list.New(groupItems, list.NewDefaultDelegate(), 0, 0)
		m.groupList.Title = fmt.Sprintf("Groups — %s", m.backend.Name())
		m.groupList.SetSize(m.width-4, m.height-8)

		m.loaded = true
		return m, nil
	}

	if !m.loaded {
		return m, nil
	}

	var cmd tea.Cmd
	if m.pane == AccountsPane {
		m.accountList, cmd = m.accountList.Update(msg)
	} else {
		m.groupList, cmd = m.groupList.Update(msg)
	}
	return m, cmd
}

// View renders the active pane.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v", m.err)) + "\n"
	}
	if !m.loaded {
		return styles.title.Render("Loading store contents...") + "\n"
	}

	var body string
	if m.pane == AccountsPane {
		body = m.accountList.View()
	} else {
		body = m.groupList.View()
	}

	return body + "\n" + styles.help.Render(m.help.ShortHelpView(m.keys.ShortHelp()))
}

// Err returns the error that terminated the browser, if any.
func (m *Model) Err() error {
	return m.err
}
