package events

import (
	"context"
	"time"

	"parenteye/models"
)

// SliceStore is an in-memory Store over a fixed dataset; slice order is storage order.
type SliceStore struct {
	events []models.Event
}

// NewSliceStore copies events into a new store.
func NewSliceStore(events []models.Event) *SliceStore {
	return &SliceStore{events: append([]models.Event(nil), events...)}
}

// EventsBetween implements Store.
func (s *SliceStore) EventsBetween(ctx context.Context, start, end time.Time) ([]models.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	lo, hi := start.Unix(), end.Unix()
	var out []models.Event
	for _, e := range s.events {
		if e.EventTimestamp != nil && *e.EventTimestamp >= lo && *e.EventTimestamp <= hi {
			out = append(out, e)
		}
	}
	return out, nil
}

// Len returns the dataset size.
func (s *SliceStore) Len() int { return len(s.events) }
