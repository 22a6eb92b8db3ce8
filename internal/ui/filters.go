package ui

import (
	"fmt"
	"strings"

	"github.com/magnetdb/magnetcli/internal/format"
	"github.com/magnetdb/magnetcli/internal/state"
)

// sortFields lists the columns the API accepts as sort_by for r.
func sortFields(r state.Resource) []string {
	if r == state.Parts {
		return []string{"name", "type", "status", "created_at", "updated_at"}
	}
	return []string{"name", "status", "created_at", "updated_at"}
}

// nextValue cycles through values with "" (no value) between the last and
// the first entry.
func nextValue(values []string, current string) string {
	if len(values) == 0 {
		return ""
	}
	if current == "" {
		return values[0]
	}
	for i, v := range values {
		if v == current {
			if i == len(values)-1 {
				return ""
			}
			return values[i+1]
		}
	}
	return ""
}

// filterLabel returns the display label for the active status filter.
func (m Model) filterLabel() string {
	status := m.options().Status
	if status == "" {
		return "All"
	}
	return format.StatusLabel(status)
}

// sortLabel describes the active ordering, e.g. "Name ↓".
func (m Model) sortLabel() string {
	opts := m.options()
	if opts.SortBy == "" {
		if opts.SortDesc {
			return "Default ↓"
		}
		return "Default"
	}
	return format.Humanize(opts.SortBy) + ternary(opts.SortDesc, " ↓", " ↑")
}

// listTitle is the list pane title with active filters.
func (m Model) listTitle() string {
	r := m.active()
	_, _, total := m.snapshot.PageInfo(r)

	parts := []string{fmt.Sprintf("%s (%d)", r.Title(), total)}
	opts := m.options()
	if opts.Status != "" {
		parts = append(parts, m.filterLabel())
	}
	if q := strings.TrimSpace(opts.Query); q != "" {
		parts = append(parts, fmt.Sprintf("%q", truncate(q, 20)))
	}
	return strings.Join(parts, " · ")
}
