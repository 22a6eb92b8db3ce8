package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/magnetdb/magnetcli/internal/format"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	labelStyle  = lipgloss.NewStyle().Bold(true)
	faintStyle  = lipgloss.NewStyle().Faint(true)
)

// printer writes command results as tables or JSON.
type printer struct {
	w    io.Writer
	json bool
}

func newPrinter(w io.Writer, asJSON bool) *printer {
	return &printer{w: w, json: asJSON}
}

func (p *printer) writeJSON(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// table renders rows under headers, or raw as JSON.
func (p *printer) table(raw any, headers []string, rows [][]string) error {
	if p.json {
		return p.writeJSON(raw)
	}
	if len(rows) == 0 {
		_, err := fmt.Fprintln(p.w, faintStyle.Render("(none)"))
		return err
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	_, err := fmt.Fprintln(p.w, t.Render())
	return err
}

// pageFooter prints the pagination line under a listing.
func (p *printer) pageFooter(current, last, total int) error {
	if p.json {
		return nil
	}
	_, err := fmt.Fprintln(p.w, faintStyle.Render(fmt.Sprintf("page %d of %d · %d total", current, last, total)))
	return err
}

type field struct {
	label string
	value string
}

// record renders a key/value block followed by optional sections.
func (p *printer) record(raw any, fields []field, sections ...section) error {
	if p.json {
		return p.writeJSON(raw)
	}
	width := 0
	for _, f := range fields {
		width = max(width, len(f.label))
	}

	var b strings.Builder
	for _, f := range fields {
		value := f.value
		if strings.TrimSpace(value) == "" {
			value = faintStyle.Render("—")
		}
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-*s", width, f.label)))
		b.WriteString("  ")
		b.WriteString(value)
		b.WriteString("\n")
	}
	for _, s := range sections {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render(s.title))
		b.WriteString("\n")
		if len(s.rows) == 0 {
			b.WriteString(faintStyle.Render("(none)"))
			b.WriteString("\n")
			continue
		}
		b.WriteString(table.New().
			Border(lipgloss.NormalBorder()).
			Headers(s.headers...).
			Rows(s.rows...).
			StyleFunc(func(row, _ int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				return cellStyle
			}).
			Render())
		b.WriteString("\n")
	}
	_, err := io.WriteString(p.w, b.String())
	return err
}

// section is a related-records table inside a record block.
type section struct {
	title   string
	headers []string
	rows    [][]string
}

// done prints a one-line confirmation, or raw as JSON.
func (p *printer) done(raw any, msg string, args ...any) error {
	if p.json {
		return p.writeJSON(raw)
	}
	_, err := fmt.Fprintf(p.w, msg+"\n", args...)
	return err
}

func idString(id int64) string {
	return strconv.FormatInt(id, 10)
}

func floatString(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func statusCell(status string) string {
	return format.StatusLabel(status)
}
