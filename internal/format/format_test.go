package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDateTimeIn(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	assert.Equal(t, "March 4, 2024 at 3:05 PM", DateTimeIn("2024-03-04T14:05:00Z", paris))
	assert.Equal(t, "March 4, 2024 at 2:05 PM", DateTimeIn(time.Date(2024, 3, 4, 14, 5, 0, 0, time.UTC), time.UTC))
	assert.Equal(t, "January 9, 2023 at 9:00 AM", DateTimeIn("2023-01-09T09:00:00.123456+00:00", time.UTC))
}

func TestDateTimeEmptyInput(t *testing.T) {
	var nilTime *time.Time
	assert.Empty(t, DateTime(""))
	assert.Empty(t, DateTime(nil))
	assert.Empty(t, DateTime(nilTime))
	assert.Empty(t, DateTime("yesterday"))
	assert.Empty(t, DateTime(42))
	assert.Empty(t, Date(""))
}

func TestDateTimeLocalIsoformat(t *testing.T) {
	got := DateTimeIn("2024-06-01T08:30:00", time.Local)
	assert.Equal(t, "June 1, 2024 at 8:30 AM", got)
}

func TestStatusName(t *testing.T) {
	name, ok := StatusName("in_operation")
	assert.True(t, ok)
	assert.Equal(t, "In operation", name)

	name, ok = StatusName("in_progress")
	assert.True(t, ok)
	assert.Equal(t, "In progress", name)

	assert.NotPanics(t, func() {
		name, ok = StatusName("exploded")
	})
	assert.False(t, ok)
	assert.Empty(t, name)
}

func TestRoleName(t *testing.T) {
	name, ok := RoleName("designer")
	assert.True(t, ok)
	assert.Equal(t, "Designer", name)

	_, ok = RoleName("root")
	assert.False(t, ok)
}

func TestLabelsFallBackToHumanized(t *testing.T) {
	assert.Equal(t, "Scheduled", StatusLabel("scheduled"))
	assert.Equal(t, "Under review", StatusLabel("under_review"))
	assert.Equal(t, "Unknown", StatusLabel(""))
	assert.Equal(t, "Admin", RoleLabel("admin"))
	assert.Equal(t, "Super user", RoleLabel("SUPER_USER"))
}
