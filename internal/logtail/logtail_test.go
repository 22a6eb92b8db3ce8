package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/apex/log"
)

func TestRead(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "magnetcli.log")

	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf(" INFO 2026-10-16 09:00:%02d api request", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}

	if err := os.WriteFile(logPath, []byte(content.String()), 0o644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{name: "read all (0)", maxLines: 0, expected: expectedAll},
		{name: "read all (negative)", maxLines: -1, expected: expectedAll},
		{name: "read partial (5)", maxLines: 5, expected: expectedAll[5:]},
		{name: "read exactly all (10)", maxLines: 10, expected: expectedAll},
		{name: "read more than exists (20)", maxLines: 20, expected: expectedAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestReadMissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "absent.log"), 10)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("Read() = %v, want no lines", got)
	}
}

func TestLineLevel(t *testing.T) {
	tests := []struct {
		line  string
		level log.Level
		ok    bool
	}{
		{line: " INFO 2026-10-16 09:00:00 magnetcli started", level: log.InfoLevel, ok: true},
		{line: "ERROR 2026-10-16 09:00:00 command failed", level: log.ErrorLevel, ok: true},
		{line: " WARN 2026-10-16 09:00:00 refresh failed", level: log.WarnLevel, ok: true},
		{line: "DEBUG 2026-10-16 09:00:00 api request", level: log.DebugLevel, ok: true},
		{line: "    at /api/magnets", ok: false},
		{line: "", ok: false},
	}
	for _, tt := range tests {
		level, ok := LineLevel(tt.line)
		if ok != tt.ok {
			t.Fatalf("LineLevel(%q) ok = %v, want %v", tt.line, ok, tt.ok)
		}
		if ok && level != tt.level {
			t.Fatalf("LineLevel(%q) = %v, want %v", tt.line, level, tt.level)
		}
	}
}

func TestFilterKeepsContinuationsWithTheirEntry(t *testing.T) {
	lines := []string{
		"DEBUG 2026-10-16 09:00:00 api request",
		"    detail of debug",
		" WARN 2026-10-16 09:00:01 refresh failed",
		"    detail of warn",
		" INFO 2026-10-16 09:00:02 magnetcli started",
	}

	got := Filter(lines, log.WarnLevel)
	want := []string{
		" WARN 2026-10-16 09:00:01 refresh failed",
		"    detail of warn",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Filter() = %v, want %v", got, want)
	}

	if got := Filter(lines, log.DebugLevel); len(got) != len(lines) {
		t.Fatalf("Filter(debug) kept %d lines, want %d", len(got), len(lines))
	}
}

func TestHighlightKeepsText(t *testing.T) {
	for _, line := range []string{
		" INFO 2026-10-16 09:00:00 magnetcli started api=http://127.0.0.1:8000",
		"ERROR 2026-10-16 09:00:00 command failed",
		"    continuation",
		"",
	} {
		got := Highlight(line)
		for _, word := range strings.Fields(line) {
			if !strings.Contains(got, word) {
				t.Fatalf("Highlight(%q) = %q, lost %q", line, got, word)
			}
		}
	}
}
