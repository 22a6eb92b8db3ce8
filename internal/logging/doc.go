// Package logging builds the apex/log loggers used by magnetcli. The TUI owns
// the terminal, so entries go to a log file as plain text lines.
package logging
