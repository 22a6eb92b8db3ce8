package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/apex/log"
	"github.com/charmbracelet/lipgloss"
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns every line. A missing file yields no lines.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := range count {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// LineLevel reads the level column that starts every entry. Lines without
// one are continuations of the previous entry.
func LineLevel(line string) (log.Level, bool) {
	word, _, _ := strings.Cut(strings.TrimLeft(line, " "), " ")
	switch word {
	case "DEBUG":
		return log.DebugLevel, true
	case "INFO":
		return log.InfoLevel, true
	case "WARN":
		return log.WarnLevel, true
	case "ERROR":
		return log.ErrorLevel, true
	case "FATAL":
		return log.FatalLevel, true
	}
	return log.InvalidLevel, false
}

// Filter keeps the entries at threshold or above.
func Filter(lines []string, threshold log.Level) []string {
	out := make([]string, 0, len(lines))
	keep := true
	for _, line := range lines {
		if level, ok := LineLevel(line); ok {
			keep = level >= threshold
		}
		if keep {
			out = append(out, line)
		}
	}
	return out
}

var levelStyles = map[log.Level]lipgloss.Style{
	log.DebugLevel: lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")),
	log.InfoLevel:  lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD75F")).Bold(true),
	log.WarnLevel:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")).Bold(true),
	log.ErrorLevel: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
	log.FatalLevel: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
}

var continuationStyle = lipgloss.NewStyle().Faint(true)

// Highlight colours the level column of an entry and dims continuation lines.
func Highlight(line string) string {
	level, ok := LineLevel(line)
	if !ok {
		if strings.TrimSpace(line) == "" {
			return line
		}
		return continuationStyle.Render(line)
	}
	indent := len(line) - len(strings.TrimLeft(line, " "))
	word, rest, _ := strings.Cut(line[indent:], " ")
	return line[:indent] + levelStyles[level].Render(word) + " " + rest
}
