package format

import (
	"time"

	"github.com/magnetdb/magnetcli/internal/magnetdb"
)

// DateTimeLayout renders like en-US Intl.DateTimeFormat with long month,
// numeric day, year, hour and minute.
const DateTimeLayout = "January 2, 2006 at 3:04 PM"

// DateTime formats v in local time. It accepts time.Time, *time.Time and
// server timestamp strings; empty or unparseable input gives "".
func DateTime(v any) string {
	return DateTimeIn(v, time.Local)
}

// DateTimeIn is DateTime rendered in loc.
func DateTimeIn(v any, loc *time.Location) string {
	t := toTime(v)
	if t.IsZero() {
		return ""
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DateTimeLayout)
}

// Date renders only the calendar day, for narrow table columns.
func Date(v any) string {
	t := toTime(v)
	if t.IsZero() {
		return ""
	}
	return t.In(time.Local).Format("Jan 2, 2006")
}

func toTime(v any) time.Time {
	switch val := v.(type) {
	case time.Time:
		return val
	case *time.Time:
		if val == nil {
			return time.Time{}
		}
		return *val
	case string:
		return magnetdb.ParseTime(val)
	case *string:
		if val == nil {
			return time.Time{}
		}
		return magnetdb.ParseTime(*val)
	}
	return time.Time{}
}
