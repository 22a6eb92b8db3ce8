// Package ui provides the terminal resource browser for magnetcli.
//
// # Architecture Overview
//
// The browser is a Bubble Tea program styled with lipgloss. Model owns the
// view state (active tab, selection, prompts) and reads list data from a
// state.Store that the background poller and the browser itself refresh.
// Every change of tab, filter, sort order, query or page stores new list
// options and re-fetches the active resource.
//
// # Package Structure
//
//   - app.go: Model, message handling and the Run entry point
//   - browser.go: list pane, row formatting and titled boxes
//   - detail.go: detail pane for magnets, parts and sites
//   - header.go: status bar, resource tabs and command hints
//   - actions.go: row projection, lifecycle actions and detail fetches
//   - filters.go: status filter and sort cycling
//   - modal.go: yes/no confirmation dialog
//   - help.go, keys.go: help overlay built from the key map
//   - theme.go, style_helpers.go: color themes and background-safe rendering
//
// # Key Bindings
//
//   - 1/2/3 or Tab: Magnets, Parts, Sites
//   - j/k, g/G: move selection
//   - Shift+Tab: focus the detail pane (j/k then scroll it)
//   - /: search by name (sent as query)
//   - f: cycle the status filter
//   - s/S: cycle the sort field, toggle direction
//   - n/p: next/previous page
//   - r: refresh
//   - x: lifecycle action on the selection, after a y/n confirmation
//   - T: cycle theme (saved to preferences)
//   - h/?: help
//   - e or Ctrl+C: exit
//
// Lifecycle actions are: defunct for magnets and parts, put in operation or
// shut down for sites depending on their status. Defunct records have none.
package ui
