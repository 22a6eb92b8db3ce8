package format

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var statusNames = map[string]string{
	"in_stock":     "In stock",
	"in_study":     "In study",
	"in_operation": "In operation",
	"defunct":      "Defunct",
	"pending":      "Pending",
	"in_progress":  "In progress",
	"done":         "Done",
	"failed":       "Failed",
	"scheduled":    "Scheduled",
}

var roleNames = map[string]string{
	"guest":    "Guest",
	"user":     "User",
	"designer": "Designer",
	"admin":    "Admin",
}

// StatusName returns the display name of a lifecycle status. ok is false for
// unknown statuses.
func StatusName(status string) (name string, ok bool) {
	name, ok = statusNames[status]
	return name, ok
}

// RoleName returns the display name of a user role. ok is false for unknown
// roles.
func RoleName(role string) (name string, ok bool) {
	name, ok = roleNames[role]
	return name, ok
}

// StatusLabel is StatusName with a humanized fallback, so an unknown status
// still renders.
func StatusLabel(status string) string {
	if name, ok := StatusName(status); ok {
		return name
	}
	return Humanize(status)
}

// RoleLabel is RoleName with a humanized fallback.
func RoleLabel(role string) string {
	if name, ok := RoleName(role); ok {
		return name
	}
	return Humanize(role)
}

// Humanize turns a snake_case key into sentence case ("under_review" becomes
// "Under review"). Blank input gives "Unknown".
func Humanize(key string) string {
	words := strings.Fields(strings.NewReplacer("_", " ", "-", " ").Replace(key))
	if len(words) == 0 {
		return "Unknown"
	}
	title := cases.Title(language.English)
	lower := cases.Lower(language.English)
	for i, w := range words {
		if i == 0 {
			words[i] = title.String(w)
			continue
		}
		words[i] = lower.String(w)
	}
	return strings.Join(words, " ")
}
