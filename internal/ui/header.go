package ui

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/magnetdb/magnetcli/internal/magnetdb"
	"github.com/magnetdb/magnetcli/internal/state"
)

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth

	parts := []string{bg.Render("magnetdb", styles.Logo)}

	if m.client != nil {
		limit := 40
		if compact {
			limit = 24
		}
		parts = append(parts, bg.Render(truncateMiddle(m.client.BaseURL(), limit), styles.MutedText))
	}

	switch {
	case m.snapshot.IsOffline():
		parts = append(parts,
			bg.Render(classifyConnectionError(m.snapshot.LastError), styles.DangerText.Bold(true))+bg.Space()+
				bg.Render("Retrying...", styles.WarningText.Bold(true)))
	case !m.snapshot.Loaded[m.active()] && m.snapshot.LastError == nil:
		parts = append(parts, bg.Render("Loading...", styles.WarningText.Bold(true)))
	default:
		parts = append(parts, bg.Render("● ONLINE", styles.SuccessText))
	}

	current, last, total := m.snapshot.PageInfo(m.active())
	if last > 0 {
		parts = append(parts,
			bg.Render("Page:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d/%d", current, last), styles.Text)+bg.Space()+
				bg.Render(fmt.Sprintf("(%d)", total), styles.FaintText))
	}

	parts = append(parts,
		bg.Render("Sort:", styles.MutedText)+bg.Space()+bg.Render(m.sortLabel(), styles.Text))

	if timeStr := m.formatTimestamp(); timeStr != "" {
		parts = append(parts, bg.Render(timeStr, styles.MutedText))
	}

	if m.snapshot.LastError != nil && !m.snapshot.IsOffline() {
		maxErr := 60
		if compact {
			maxErr = 30
		}
		parts = append(parts,
			bg.Render("ERROR", styles.DangerText.Bold(true))+bg.Space()+
				bg.Render(truncate(m.snapshot.LastError.Error(), maxErr), styles.DangerText))
	}

	if m.notice != "" {
		noticeStyle := styles.InfoText
		if m.noticeError {
			noticeStyle = styles.WarningText
		}
		parts = append(parts, bg.Render(truncate(m.notice, 60), noticeStyle))
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		Render(bg.Join(parts, "  "))
}

// renderTabs renders the resource tabs with the search prompt when open.
func (m Model) renderTabs() string {
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	bg := NewBgStyle(m.theme.Background)

	var tabs []string
	for i, r := range state.Resources() {
		label := fmt.Sprintf(" %d %s ", i+1, r.Title())
		if r == m.active() {
			tabs = append(tabs, styles.Selected.Bold(true).Render(label))
			continue
		}
		tabs = append(tabs, bg.Render(label, styles.MutedText))
	}
	line := strings.Join(tabs, bg.Space())

	if m.searching {
		line += bg.Spaces(2) + m.searchInput.View()
	}
	return bg.FillLine(line, m.width)
}

// renderCommandBar renders the command hints bar.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	commands := []cmd{
		{"/", "Search"},
		{"f", m.filterLabel()},
		{"s/S", "Sort"},
		{"n/p", "Page"},
		{"r", "Refresh"},
	}
	if item, ok := m.selected(); ok {
		if action, ok := actionFor(m.active(), item.status); ok {
			commands = append(commands, cmd{"x", action.label})
		}
	}
	if m.searching {
		commands = []cmd{{"enter", "Apply"}, {"esc", "Cancel"}}
	}
	commands = append(commands, cmd{"?", "More"})

	var parts []string
	for _, c := range commands {
		parts = append(parts,
			bg.Render("<"+c.key+">", styles.AccentText)+bg.Space()+bg.Render(c.desc, styles.MutedText))
	}

	return styles.Footer.Width(m.width).Render(bg.Join(parts, "  "))
}

// formatTimestamp formats the last update time with relative indicator.
func (m Model) formatTimestamp() string {
	updated := m.snapshot.LastUpdated
	if updated.IsZero() {
		return ""
	}

	timeSince := time.Since(updated)
	timeStr := updated.Format("15:04:05")

	switch {
	case timeSince < time.Minute:
		timeStr += " (now)"
	case timeSince < time.Hour:
		timeStr += fmt.Sprintf(" (%dm ago)", int(timeSince.Minutes()))
	case timeSince < 24*time.Hour:
		timeStr += fmt.Sprintf(" (%dh ago)", int(timeSince.Hours()))
	}

	return timeStr
}

// classifyConnectionError returns a short description of the connection error.
func classifyConnectionError(err error) string {
	if err == nil {
		return "OFFLINE"
	}
	var apiErr *magnetdb.APIError
	if errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden) {
		return "UNAUTHORIZED"
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return "TIMEOUT"
	default:
		return "ERROR"
	}
}
