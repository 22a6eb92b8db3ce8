package magnetdb

import (
	"encoding/json"
	"time"
)

// Python's datetime.isoformat() without a zone.
const isoLocalLayout = "2006-01-02T15:04:05.999999"

// Page mirrors the paginated listing returned by the index endpoints.
type Page[T any] struct {
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	Total       int `json:"total"`
	Items       []T `json:"items"`
}

// HasNext reports whether another page follows this one.
func (p Page[T]) HasNext() bool {
	return p.CurrentPage < p.LastPage
}

// HasPrev reports whether a page precedes this one.
func (p Page[T]) HasPrev() bool {
	return p.CurrentPage > 1
}

// Attachment is a stored file reference.
type Attachment struct {
	ID          int64  `json:"id"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	CreatedAt   string `json:"created_at"`
}

// Material is the raw material a part is machined from.
type Material struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Nuance      string `json:"nuance"`
	Description string `json:"description"`
}

// Magnet is an assembly of parts that can be installed on sites.
type Magnet struct {
	ID                    int64        `json:"id"`
	Name                  string       `json:"name"`
	Description           string       `json:"description"`
	Status                string       `json:"status"`
	DesignOfficeReference string       `json:"design_office_reference"`
	CreatedAt             string       `json:"created_at"`
	UpdatedAt             string       `json:"updated_at"`
	CommissionedAt        string       `json:"commissioned_at"`
	DecommissionedAt      string       `json:"decommissioned_at"`
	SupportedPartTypes    []string     `json:"supported_part_types"`
	Geometry              *Attachment  `json:"geometry"`
	MagnetParts           []MagnetPart `json:"magnet_parts"`
	SiteMagnets           []SiteMagnet `json:"site_magnets"`
}

// ParsedUpdatedAt returns the parsed UpdatedAt timestamp.
func (m Magnet) ParsedUpdatedAt() time.Time {
	return ParseTime(m.UpdatedAt)
}

// ActiveParts returns the part links that have not been decommissioned.
func (m Magnet) ActiveParts() []MagnetPart {
	var active []MagnetPart
	for _, mp := range m.MagnetParts {
		if mp.Active() {
			active = append(active, mp)
		}
	}
	return active
}

// Part is a single component of a magnet.
type Part struct {
	ID                    int64           `json:"id"`
	Name                  string          `json:"name"`
	Description           string          `json:"description"`
	Type                  string          `json:"type"`
	Status                string          `json:"status"`
	DesignOfficeReference string          `json:"design_office_reference"`
	CreatedAt             string          `json:"created_at"`
	UpdatedAt             string          `json:"updated_at"`
	Material              *Material       `json:"material"`
	MagnetParts           []MagnetPart    `json:"magnet_parts"`
	Geometries            []PartGeometry  `json:"geometries"`
	AllowHTSFile          bool            `json:"allow_hts_file"`
	AllowShapeFile        bool            `json:"allow_shape_file"`
	HTS                   *Attachment     `json:"hts"`
	Shape                 *Attachment     `json:"shape"`
	Metadata              json.RawMessage `json:"metadata"`
}

// ParsedUpdatedAt returns the parsed UpdatedAt timestamp.
func (p Part) ParsedUpdatedAt() time.Time {
	return ParseTime(p.UpdatedAt)
}

// GeometryByType returns the geometry record stored under typ.
func (p Part) GeometryByType(typ string) (PartGeometry, bool) {
	for _, g := range p.Geometries {
		if g.Type == typ {
			return g, true
		}
	}
	return PartGeometry{}, false
}

// PartGeometry is one geometry file of a part, keyed by geometry type.
type PartGeometry struct {
	ID         int64       `json:"id"`
	PartID     int64       `json:"part_id"`
	Type       string      `json:"type"`
	Attachment *Attachment `json:"attachment"`
}

// Site is a facility where magnets are operated.
type Site struct {
	ID               int64        `json:"id"`
	Name             string       `json:"name"`
	Description      string       `json:"description"`
	Status           string       `json:"status"`
	CreatedAt        string       `json:"created_at"`
	UpdatedAt        string       `json:"updated_at"`
	CommissionedAt   string       `json:"commissioned_at"`
	DecommissionedAt string       `json:"decommissioned_at"`
	Config           *Attachment  `json:"config"`
	SiteMagnets      []SiteMagnet `json:"site_magnets"`
}

// ParsedUpdatedAt returns the parsed UpdatedAt timestamp.
func (s Site) ParsedUpdatedAt() time.Time {
	return ParseTime(s.UpdatedAt)
}

// MagnetPart links a part into a magnet.
type MagnetPart struct {
	ID               int64    `json:"id"`
	Magnet           *Magnet  `json:"magnet"`
	Part             *Part    `json:"part"`
	InnerBore        *float64 `json:"inner_bore"`
	OuterBore        *float64 `json:"outer_bore"`
	Angle            *float64 `json:"angle"`
	CommissionedAt   string   `json:"commissioned_at"`
	DecommissionedAt string   `json:"decommissioned_at"`
}

// Active reports whether the link is still in service.
func (mp MagnetPart) Active() bool {
	return mp.DecommissionedAt == ""
}

// SiteMagnet places a magnet on a site.
type SiteMagnet struct {
	ID               int64    `json:"id"`
	Site             *Site    `json:"site"`
	Magnet           *Magnet  `json:"magnet"`
	ZOffset          *float64 `json:"z_offset"`
	ROffset          *float64 `json:"r_offset"`
	Parallax         *float64 `json:"parallax"`
	CommissionedAt   string   `json:"commissioned_at"`
	DecommissionedAt string   `json:"decommissioned_at"`
}

// Active reports whether the magnet is still installed.
func (sm SiteMagnet) Active() bool {
	return sm.DecommissionedAt == ""
}

// MeshAttachment is a mesh file bound to a magnet or a site.
type MeshAttachment struct {
	ID         int64       `json:"id"`
	Type       string      `json:"type"`
	Attachment *Attachment `json:"attachment"`
	Magnet     *Magnet     `json:"magnet"`
	Site       *Site       `json:"site"`
	CreatedAt  string      `json:"created_at"`
}

// Record is a measurement record taken on a site.
type Record struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Attachment  *Attachment `json:"attachment"`
	CreatedAt   string      `json:"created_at"`
}

// ParseTime parses the timestamp layouts the server emits. It returns the zero
// time when value is empty or unrecognised.
func ParseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	if t, err := time.ParseInLocation(isoLocalLayout, value, time.Local); err == nil {
		return t
	}
	return time.Time{}
}
