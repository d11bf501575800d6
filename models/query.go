package models

import "time"

// QueryParameters drives a proximity event query.
type QueryParameters struct {
	Origin      Coordinate
	RadiusKm    float64
	MaxResults  int
	WindowStart time.Time // zero means now
	WindowEnd   time.Time // zero means WindowStart + 1 month
	ExactDate   string    // optional display-date equality filter
}

// WithWindowDefaults fills an unset time window relative to now.
func (p QueryParameters) WithWindowDefaults(now time.Time) QueryParameters {
	if p.WindowStart.IsZero() {
		p.WindowStart = now
	}
	if p.WindowEnd.IsZero() {
		p.WindowEnd = p.WindowStart.AddDate(0, 1, 0)
	}
	return p
}
