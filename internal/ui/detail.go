package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/magnetdb/magnetcli/internal/format"
	"github.com/magnetdb/magnetcli/internal/magnetdb"
	"github.com/magnetdb/magnetcli/internal/state"
)

// initDetailViewport initializes the detail viewport.
func (m *Model) initDetailViewport() {
	w, h := m.detailSize()
	m.detailViewport = viewport.New(w, h)
	m.detailViewport.Style = lipgloss.NewStyle()
}

// detailSize returns the inner size of the detail pane.
func (m Model) detailSize() (int, int) {
	_, detailWidth := m.paneWidths()
	return max(detailWidth-4, 10), max(m.height-chromeHeight-2, 1)
}

// updateDetailViewport re-renders the detail pane content.
func (m *Model) updateDetailViewport() {
	if !m.ready {
		return
	}
	w, h := m.detailSize()
	m.detailViewport.Width = w
	m.detailViewport.Height = h
	m.detailViewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.detailBg()))
	m.detailViewport.SetContent(m.renderDetailContent(w))
}

func (m Model) detailBg() string {
	if m.focusedPane == 1 {
		return m.theme.FocusBg
	}
	return m.theme.SurfaceAlt
}

// renderDetailContent renders the selected record. The fetched record with
// relations is used when available, the list entry otherwise.
func (m Model) renderDetailContent(width int) string {
	item, ok := m.selected()
	if !ok {
		return m.theme.Styles().MutedText.Render("Select an item")
	}

	d := detailWriter{theme: m.theme, width: width}
	record := m.details[detailKey{resource: m.active(), id: item.id}]

	switch m.active() {
	case state.Magnets:
		magnet, ok := record.(*magnetdb.Magnet)
		if !ok {
			magnet = &m.snapshot.Magnets.Items[m.selectedRow]
		}
		d.magnet(magnet)
	case state.Parts:
		part, ok := record.(*magnetdb.Part)
		if !ok {
			part = &m.snapshot.Parts.Items[m.selectedRow]
		}
		d.part(part)
	case state.Sites:
		site, ok := record.(*magnetdb.Site)
		if !ok {
			site = &m.snapshot.Sites.Items[m.selectedRow]
		}
		d.site(site)
	}
	return d.String()
}

// detailWriter accumulates label/value lines for the detail pane.
type detailWriter struct {
	theme Theme
	width int
	b     strings.Builder
}

func (d *detailWriter) String() string {
	return strings.TrimRight(d.b.String(), "\n")
}

func (d *detailWriter) title(text string) {
	d.b.WriteString(d.theme.Styles().Text.Bold(true).Render(truncate(text, d.width)))
	d.b.WriteString("\n")
}

func (d *detailWriter) section(text string) {
	d.b.WriteString("\n")
	d.b.WriteString(d.theme.Styles().AccentText.Bold(true).Render(text))
	d.b.WriteString("\n")
}

func (d *detailWriter) field(label, value string) {
	styles := d.theme.Styles()
	d.b.WriteString(styles.MutedText.Render(padRight(label, 16)))
	d.b.WriteString(styles.Text.Render(truncate(orDash(value), max(d.width-16, 8))))
	d.b.WriteString("\n")
}

func (d *detailWriter) status(status string) {
	styles := d.theme.Styles()
	d.b.WriteString(styles.MutedText.Render(padRight("Status", 16)))
	d.b.WriteString(styles.StatusStyle(status).Render(format.StatusLabel(status)))
	d.b.WriteString("\n")
}

func (d *detailWriter) line(text string) {
	d.b.WriteString(d.theme.Styles().Text.Render(truncate(text, d.width)))
	d.b.WriteString("\n")
}

func (d *detailWriter) empty(text string) {
	d.b.WriteString(d.theme.Styles().FaintText.Render(text))
	d.b.WriteString("\n")
}

func (d *detailWriter) attachment(label string, a *magnetdb.Attachment) {
	if a == nil {
		return
	}
	d.field(label, truncateMiddle(a.Filename, max(d.width-16, 8)))
}

func (d *detailWriter) magnet(magnet *magnetdb.Magnet) {
	d.title(fmt.Sprintf("#%d %s", magnet.ID, magnet.Name))
	d.status(magnet.Status)
	d.field("Description", magnet.Description)
	d.field("Design ref.", magnet.DesignOfficeReference)
	d.field("Part types", strings.Join(magnet.SupportedPartTypes, ", "))
	d.field("Created", format.DateTime(magnet.CreatedAt))
	d.field("Updated", format.DateTime(magnet.UpdatedAt))
	d.field("Commissioned", format.DateTime(magnet.CommissionedAt))
	d.field("Decommissioned", format.DateTime(magnet.DecommissionedAt))
	d.attachment("Geometry", magnet.Geometry)

	d.section("Parts")
	if len(magnet.MagnetParts) == 0 {
		d.empty("No parts")
	}
	for _, mp := range magnet.MagnetParts {
		d.line(magnetPartLine(mp))
	}

	d.section("Sites")
	if len(magnet.SiteMagnets) == 0 {
		d.empty("Not installed")
	}
	for _, sm := range magnet.SiteMagnets {
		name := "?"
		if sm.Site != nil {
			name = fmt.Sprintf("#%d %s", sm.Site.ID, sm.Site.Name)
		}
		d.line(name + activeSuffix(sm.Active(), sm.CommissionedAt, sm.DecommissionedAt))
	}
}

func (d *detailWriter) part(part *magnetdb.Part) {
	d.title(fmt.Sprintf("#%d %s", part.ID, part.Name))
	d.status(part.Status)
	d.field("Type", format.Humanize(part.Type))
	d.field("Description", part.Description)
	d.field("Design ref.", part.DesignOfficeReference)
	if part.Material != nil {
		d.field("Material", part.Material.Name)
	}
	d.field("Created", format.DateTime(part.CreatedAt))
	d.field("Updated", format.DateTime(part.UpdatedAt))
	d.attachment("HTS file", part.HTS)
	d.attachment("Shape file", part.Shape)

	d.section("Geometries")
	for _, typ := range magnetdb.GeometryTypes(part.Type) {
		if g, ok := part.GeometryByType(typ); ok && g.Attachment != nil {
			d.field(format.Humanize(typ), truncateMiddle(g.Attachment.Filename, max(d.width-16, 8)))
		} else {
			d.field(format.Humanize(typ), "")
		}
	}

	d.section("Magnets")
	if len(part.MagnetParts) == 0 {
		d.empty("Not assembled")
	}
	for _, mp := range part.MagnetParts {
		name := "?"
		if mp.Magnet != nil {
			name = fmt.Sprintf("#%d %s", mp.Magnet.ID, mp.Magnet.Name)
		}
		d.line(name + activeSuffix(mp.Active(), mp.CommissionedAt, mp.DecommissionedAt))
	}
}

func (d *detailWriter) site(site *magnetdb.Site) {
	d.title(fmt.Sprintf("#%d %s", site.ID, site.Name))
	d.status(site.Status)
	d.field("Description", site.Description)
	d.field("Created", format.DateTime(site.CreatedAt))
	d.field("Updated", format.DateTime(site.UpdatedAt))
	d.field("Commissioned", format.DateTime(site.CommissionedAt))
	d.field("Decommissioned", format.DateTime(site.DecommissionedAt))
	d.attachment("Config", site.Config)

	d.section("Magnets")
	if len(site.SiteMagnets) == 0 {
		d.empty("No magnets")
	}
	for _, sm := range site.SiteMagnets {
		name := "?"
		if sm.Magnet != nil {
			name = fmt.Sprintf("#%d %s", sm.Magnet.ID, sm.Magnet.Name)
		}
		d.line(name + activeSuffix(sm.Active(), sm.CommissionedAt, sm.DecommissionedAt))
	}
}

func magnetPartLine(mp magnetdb.MagnetPart) string {
	name := "?"
	if mp.Part != nil {
		name = fmt.Sprintf("#%d %s", mp.Part.ID, mp.Part.Name)
		if mp.Part.Type != "" {
			name += " (" + format.Humanize(mp.Part.Type) + ")"
		}
	}
	return name + activeSuffix(mp.Active(), mp.CommissionedAt, mp.DecommissionedAt)
}

// activeSuffix describes a link's service window.
func activeSuffix(active bool, commissioned, decommissioned string) string {
	if active {
		if commissioned == "" {
			return ""
		}
		return " · since " + format.Date(commissioned)
	}
	return " · until " + format.Date(decommissioned)
}
