// Package format holds the display helpers shared by the TUI and the CLI:
// date rendering and the status and role label tables.
package format
