package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"github.com/apex/log/handlers/discard"
)

// New returns a logger writing lines to w at the given level.
func New(w io.Writer, level log.Level) *log.Logger {
	return &log.Logger{Handler: NewHandler(w), Level: level}
}

// Discard returns a logger that drops every entry.
func Discard() *log.Logger {
	return &log.Logger{Handler: discard.Default, Level: log.FatalLevel}
}

// ParseLevel reads a level name, defaulting to info when blank.
func ParseLevel(name string) (log.Level, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return log.InfoLevel, nil
	}
	level, err := log.ParseLevel(strings.ToLower(name))
	if err != nil {
		return log.InfoLevel, fmt.Errorf("parse log level %q: %w", name, err)
	}
	return level, nil
}

// Open appends log lines to the file at path, creating its directory. An
// empty path yields a discarding logger. The returned closer releases the file.
func Open(path string, level log.Level) (*log.Logger, io.Closer, error) {
	if strings.TrimSpace(path) == "" {
		return Discard(), io.NopCloser(nil), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return New(f, level), f, nil
}
