// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI is a thin render layer over [session.Session], which owns the view
// state, the selection, the edit buffers, and the soft-delete overlay:
//  1. [session.Idle] : Enter an anime id, or open the full note list
//  2. [session.SingleActive] : Edit one note in a textarea, save/delete/fetch per mode
//  3. [session.AllActive] : Browse visible notes, search, toggle source, pull/push
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Every collaborator call runs inside a tea.Cmd returning a typed message, and
// every message carries the session generation it was issued under; handlers
// drop messages from an older generation so a stale fetch can never clobber
// the view the user has since navigated to.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with contextual
// help displayed via charmbracelet/bubbles/help.
package ui
