// Package ui implements an interactive terminal browser using bubbletea's Elm architecture.
//
// The TUI shows one connected store's contents in two switchable panes:
//  1. Accounts : id, role, server, and cookie count per record
//  2. Groups : id, name, and member count per record
//
// The [Model] implements bubbletea's standard Init/Update/View pattern.
// Both entity lists are fetched once on startup through the storage
// backend and rendered with charmbracelet/bubbles/list.
//
// Keyboard navigation uses vim-style bindings (j/k, tab, q) with
// contextual help displayed via charmbracelet/bubbles/help.
package ui
