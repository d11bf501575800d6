// Package events implements the proximity event query: time window, optional
// exact-date match, great-circle radius filter, timestamp ordering and cap.
package events

//go:generate mockgen -source=service.go -destination=mocks/mock_store.go -package=mocks

import (
	"context"
	"log"
	"math"
	"time"

	"parenteye/internal/geo"
	"parenteye/models"
)

// Store is the persistent event source. EventsBetween must return events
// whose timestamp lies in [start, end] in storage order.
type Store interface {
	EventsBetween(ctx context.Context, start, end time.Time) ([]models.Event, error)
}

// Service answers proximity queries over a Store.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService creates a query service reading from store.
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// WithClock overrides the clock used for the default time window.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Validate checks the caller-supplied parameters.
func Validate(p models.QueryParameters) error {
	if !isFinite(p.Origin.Latitude) || !isFinite(p.Origin.Longitude) {
		return invalidf("latitude and longitude must be finite numbers")
	}
	if !isFinite(p.RadiusKm) || p.RadiusKm <= 0 {
		return invalidf("radius must be a positive number, got %v", p.RadiusKm)
	}
	if p.MaxResults <= 0 {
		return invalidf("result cap must be positive, got %d", p.MaxResults)
	}
	if !p.WindowStart.IsZero() && !p.WindowEnd.IsZero() && p.WindowEnd.Before(p.WindowStart) {
		return invalidf("window end %s is before window start %s", p.WindowEnd.Format(time.RFC3339), p.WindowStart.Format(time.RFC3339))
	}
	return nil
}

// Query returns the events within p.RadiusKm of p.Origin whose timestamp lies
// in the time window (and whose date string equals p.ExactDate when set),
// ordered by timestamp ascending with storage order breaking ties, truncated
// to p.MaxResults after ordering.
func (s *Service) Query(ctx context.Context, p models.QueryParameters) ([]models.Event, error) {
	if err := Validate(p); err != nil {
		return nil, err
	}
	p = p.WithWindowDefaults(s.now())
	if p.WindowEnd.Before(p.WindowStart) {
		return nil, invalidf("window end is before window start")
	}

	rows, err := s.store.EventsBetween(ctx, p.WindowStart, p.WindowEnd)
	if err != nil {
		return nil, &QueryExecutionError{Err: err}
	}

	start, end := p.WindowStart.Unix(), p.WindowEnd.Unix()
	matched := make([]models.Event, 0, len(rows))
	var unplaced int
	for _, e := range rows {
		if e.EventTimestamp == nil || *e.EventTimestamp < start || *e.EventTimestamp > end {
			continue
		}
		if p.ExactDate != "" && !e.DateMatches(p.ExactDate) {
			continue
		}
		c, ok := e.Coordinate()
		if !ok {
			unplaced++
			continue
		}
		if !geo.Within(p.Origin, c, p.RadiusKm) {
			continue
		}
		matched = append(matched, e)
	}

	models.SortByTimestamp(matched)
	total := len(matched)
	if total > p.MaxResults {
		matched = matched[:p.MaxResults]
	}

	log.Printf("[events] query origin=(%.5f,%.5f) radius=%.1fkm scanned=%d unplaced=%d matched=%d returned=%d",
		p.Origin.Latitude, p.Origin.Longitude, p.RadiusKm, len(rows), unplaced, total, len(matched))
	return matched, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
