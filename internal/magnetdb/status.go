package magnetdb

// Lifecycle statuses shared by magnets, parts and sites.
const (
	StatusInStock     = "in_stock"
	StatusInStudy     = "in_study"
	StatusInOperation = "in_operation"
	StatusDefunct     = "defunct"
	StatusPending     = "pending"
	StatusInProgress  = "in_progress"
	StatusDone        = "done"
	StatusFailed      = "failed"
	StatusScheduled   = "scheduled"
)

// Mesh attachment types.
const (
	MeshAxi = "axi"
	Mesh3D  = "3d"
)

// Part types that carry more than the default geometry.
const (
	PartTypeHelix = "helix"
	PartTypeSupra = "supra"
)

var (
	MagnetStatuses = []string{StatusInStock, StatusInStudy, StatusInOperation, StatusDefunct}
	SiteStatuses   = []string{StatusScheduled, StatusInStudy, StatusInOperation, StatusDefunct}
	MeshTypes      = []string{MeshAxi, Mesh3D}
)

// PartStatuses covers the production states and the lifecycle states parts
// inherit from their magnet.
var PartStatuses = []string{
	StatusPending, StatusInProgress, StatusDone, StatusFailed, StatusDefunct,
	StatusInStudy, StatusInOperation, StatusInStock,
}

// GeometryTypes lists the geometry slots a part of the given type accepts.
func GeometryTypes(partType string) []string {
	switch partType {
	case PartTypeHelix:
		return []string{"default", "salome", "catia", "cam", "shape"}
	case PartTypeSupra:
		return []string{"default", "hts"}
	}
	return []string{"default"}
}

// MagnetEditable reports whether parts may still be attached or detached.
func MagnetEditable(status string) bool {
	return status == StatusInStudy || status == StatusInStock
}

// SiteEditable reports whether magnets may still be attached or detached.
func SiteEditable(status string) bool {
	return status == StatusInStudy || status == StatusInStock
}
