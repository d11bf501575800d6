package discovery

import (
	"time"

	"parenteye/models"
)

// DisplayDateLayout renders dates the way the event store writes them, e.g. "Friday, Nov. 15".
const DisplayDateLayout = "Monday, Jan. 02"

// FormatDisplayDate formats t in loc (UTC when nil) using DisplayDateLayout.
func FormatDisplayDate(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DisplayDateLayout)
}

// FilterByDate keeps events whose date string equals date exactly, preserving order.
func FilterByDate(evts []models.Event, date string) []models.Event {
	out := make([]models.Event, 0, len(evts))
	for _, e := range evts {
		if e.DateMatches(date) {
			out = append(out, e)
		}
	}
	return out
}
