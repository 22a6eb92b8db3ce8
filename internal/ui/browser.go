package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/magnetdb/magnetcli/internal/format"
)

// paneWidths splits the terminal between list and detail panes.
// Extra wide (>= 160): 40% list, otherwise 50%.
func (m Model) paneWidths() (listWidth, detailWidth int) {
	if m.width >= LayoutExtraWideWidth {
		listWidth = m.width * 40 / 100
	} else {
		listWidth = m.width * 50 / 100
	}
	return listWidth, m.width - listWidth
}

// renderBrowser renders the list pane next to the detail pane.
func (m Model) renderBrowser() string {
	styles := m.theme.Styles()
	contentHeight := m.height - chromeHeight

	if len(m.rows()) == 0 {
		msg := "No " + strings.ToLower(m.active().Title())
		if !m.snapshot.Loaded[m.active()] {
			msg = "Loading " + strings.ToLower(m.active().Title()) + "..."
		}
		return lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center, styles.MutedText.Render(msg))
	}

	listWidth, detailWidth := m.paneWidths()

	listFocused := m.focusedPane == 0
	listBg := m.theme.SurfaceAlt
	if listFocused {
		listBg = m.theme.FocusBg
	}
	listContent := m.renderList(listWidth-2, contentHeight-2, listBg)
	listPane := m.renderTitledBox(m.listTitle(), listContent, listWidth, contentHeight, listFocused)

	detailPane := m.renderTitledBox("Details", m.detailViewport.View(), detailWidth, contentHeight, !listFocused)

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// renderList renders the loaded page as styled rows, scrolled so the
// selection stays visible.
func (m Model) renderList(width, height int, bgColor string) string {
	rows := m.rows()
	if len(rows) == 0 {
		return ""
	}

	start := 0
	if height > 0 && m.selectedRow >= height {
		start = m.selectedRow - height + 1
	}
	end := len(rows)
	if height > 0 && end > start+height {
		end = start + height
	}

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		selected := i == m.selectedRow
		rowBg := bgColor
		if selected {
			rowBg = m.theme.SelectionBg
		}
		content := m.formatRowContent(rows[i], width, rowBg, selected)
		lines = append(lines, NewBgStyle(rowBg).FillLine(content, width))
	}
	return strings.Join(lines, "\n")
}

// formatRowContent formats a record row with inline colors.
// Format: "#ID Name · Type · Status   Updated"
// When selected is true, uses SelectionText color for all text to ensure contrast.
func (m Model) formatRowContent(r row, width int, bgColor string, selected bool) string {
	bg := NewBgStyle(bgColor)

	status := format.StatusLabel(r.status)
	idStr := fmt.Sprintf("#%d", r.id)

	updated := ""
	if width >= LayoutUpdatedWidth {
		updated = format.Date(r.updated)
	}

	name := r.name
	if r.kind != "" {
		name += " · " + format.Humanize(r.kind)
	}

	reserved := len(idStr) + 1 + len(" · ") + len([]rune(status))
	if updated != "" {
		reserved += len(updated) + 2
	}
	nameWidth := max(width-reserved-1, 8)

	var idStyle, nameStyle, sepStyle, statusStyle, dateStyle lipgloss.Style
	if selected {
		selText := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
		idStyle, nameStyle, sepStyle, statusStyle, dateStyle = selText, selText, selText, selText, selText
	} else {
		styles := m.theme.Styles()
		idStyle = styles.MutedText
		nameStyle = styles.Text
		sepStyle = styles.FaintText
		statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.StatusColor(r.status)))
		dateStyle = styles.FaintText
	}

	line := bg.Render(idStr, idStyle) + bg.Space() +
		bg.Render(padRight(truncate(name, nameWidth), nameWidth), nameStyle) +
		bg.Render(" · ", sepStyle) +
		bg.Render(status, statusStyle)
	if updated != "" {
		line += bg.Spaces(2) + bg.Render(updated, dateStyle)
	}
	return line
}

// renderTitledBox renders content in a box with the title embedded in the
// top border: ┌─── Title ───┐. Focused boxes use BorderFocus and FocusBg.
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	var borderColorStr, bgColorStr string
	if focused {
		borderColorStr = m.theme.BorderFocus
		bgColorStr = m.theme.FocusBg
	} else {
		borderColorStr = m.theme.Border
		bgColorStr = m.theme.SurfaceAlt
	}
	bg := NewBgStyle(bgColorStr)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColorStr))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := max(width-2, 0)
	title = truncate(title, max(innerWidth-4, 0))
	titleLen := len([]rune(title))
	leftPad := max((innerWidth-titleLen-2)/2, 0)
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	topBorder := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)

	bottomBorder := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().Width(innerWidth).MaxWidth(innerWidth).Background(lipgloss.Color(bgColorStr))
	contentLines := strings.Split(content, "\n")
	boxHeight := height - 2

	lines := make([]string, 0, max(boxHeight, 0))
	for i := 0; i < boxHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		lines = append(lines,
			bg.Render("│", borderStyle)+
				contentStyle.Render(line)+
				bg.Render("│", borderStyle))
	}

	return topBorder + "\n" + strings.Join(lines, "\n") + "\n" + bottomBorder
}
