// Package logtail reads the end of the magnetcli log file.
//
// Entries are written by the logging package as
//
//	 INFO 2026-10-16 09:12:44 api request              method=GET path=/api/magnets status=200
//
// Read keeps the last N lines with a ring buffer, so the file is scanned once
// and memory stays proportional to N. Filter drops entries below a level;
// lines that do not start with a level belong to the entry above them and
// share its fate. Highlight colours the level column for the terminal.
//
// A missing log file reads as empty: nothing has been logged yet.
package logtail
