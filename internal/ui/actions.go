package ui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/magnetdb/magnetcli/internal/format"
	"github.com/magnetdb/magnetcli/internal/magnetdb"
	"github.com/magnetdb/magnetcli/internal/state"
)

// row is the list view of one record, whatever its resource.
type row struct {
	id      int64
	name    string
	kind    string // part type, empty for other resources
	status  string
	updated string
}

// rows returns the loaded page of the active resource.
func (m Model) rows() []row {
	var out []row
	switch m.active() {
	case state.Magnets:
		for _, item := range m.snapshot.Magnets.Items {
			out = append(out, row{id: item.ID, name: item.Name, status: item.Status, updated: item.UpdatedAt})
		}
	case state.Parts:
		for _, item := range m.snapshot.Parts.Items {
			out = append(out, row{id: item.ID, name: item.Name, kind: item.Type, status: item.Status, updated: item.UpdatedAt})
		}
	case state.Sites:
		for _, item := range m.snapshot.Sites.Items {
			out = append(out, row{id: item.ID, name: item.Name, status: item.Status, updated: item.UpdatedAt})
		}
	}
	return out
}

// selected returns the highlighted row.
func (m Model) selected() (row, bool) {
	rows := m.rows()
	if m.selectedRow < 0 || m.selectedRow >= len(rows) {
		return row{}, false
	}
	return rows[m.selectedRow], true
}

// lifecycleAction is the transition offered by the x key.
type lifecycleAction struct {
	label string
	run   func(ctx context.Context, client *magnetdb.Client, id int64) error
}

// actionFor returns the lifecycle transition available for a record in the
// given status. ok is false when the record has none.
func actionFor(r state.Resource, status string) (lifecycleAction, bool) {
	if status == magnetdb.StatusDefunct {
		return lifecycleAction{}, false
	}
	switch r {
	case state.Magnets:
		return lifecycleAction{label: "Defunct magnet", run: func(ctx context.Context, c *magnetdb.Client, id int64) error {
			_, err := c.Magnets.Defunct(ctx, id)
			return err
		}}, true
	case state.Parts:
		return lifecycleAction{label: "Defunct part", run: func(ctx context.Context, c *magnetdb.Client, id int64) error {
			_, err := c.Parts.Defunct(ctx, id)
			return err
		}}, true
	case state.Sites:
		if status == magnetdb.StatusInOperation {
			return lifecycleAction{label: "Shut down site", run: func(ctx context.Context, c *magnetdb.Client, id int64) error {
				_, err := c.Sites.Shutdown(ctx, id)
				return err
			}}, true
		}
		return lifecycleAction{label: "Put site in operation", run: func(ctx context.Context, c *magnetdb.Client, id int64) error {
			_, err := c.Sites.PutInOperation(ctx, id)
			return err
		}}, true
	}
	return lifecycleAction{}, false
}

// promptAction opens a confirmation for the selected record's transition.
func (m Model) promptAction() (tea.Model, tea.Cmd) {
	item, ok := m.selected()
	if !ok || m.client == nil {
		return m, nil
	}
	action, ok := actionFor(m.active(), item.status)
	if !ok {
		m.setNotice(fmt.Sprintf("No action for %s records", format.StatusLabel(item.status)), false)
		return m, nil
	}
	prompt := fmt.Sprintf("%s #%d %s?\nCurrent status: %s", action.label, item.id, item.name, format.StatusLabel(item.status))
	m.modal = newConfirmModal(action.label, prompt, actionCmd(m.ctx, m.client, action, item.id))
	return m, nil
}

func actionCmd(ctx context.Context, client *magnetdb.Client, action lifecycleAction, id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, ActionTimeout)
		defer cancel()
		return actionDoneMsg{label: action.label, err: action.run(ctx, client, id)}
	}
}

// loadDetail fetches the selected record with its relations.
func (m Model) loadDetail() tea.Cmd {
	item, ok := m.selected()
	if !ok || m.client == nil {
		return nil
	}
	return detailCmd(m.ctx, m.client, detailKey{resource: m.active(), id: item.id})
}

// hasDetail reports whether a fetched record is shown for the selection.
func (m Model) hasDetail() bool {
	item, ok := m.selected()
	if !ok {
		return true
	}
	_, fetched := m.details[detailKey{resource: m.active(), id: item.id}]
	return fetched
}

func detailCmd(ctx context.Context, client *magnetdb.Client, k detailKey) tea.Cmd {
	return func() tea.Msg {
		var (
			record any
			err    error
		)
		switch k.resource {
		case state.Magnets:
			record, err = client.Magnets.Find(ctx, k.id)
		case state.Parts:
			record, err = client.Parts.Find(ctx, k.id)
		case state.Sites:
			record, err = client.Sites.Find(ctx, k.id)
		default:
			err = fmt.Errorf("unknown resource %q", k.resource)
		}
		return detailMsg{key: k, record: record, err: err}
	}
}
