package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"parenteye/models"
	"parenteye/services/events"
	"parenteye/services/geocoding"

	"github.com/spf13/afero"
)

// LoadDataset reads a JSON array of events from path on fs.
func LoadDataset(fs afero.Fs, path string) ([]models.Event, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}
	var evts []models.Event
	if err := json.Unmarshal(data, &evts); err != nil {
		return nil, fmt.Errorf("%w: dataset %s: %w", ErrDecoding, path, err)
	}
	return evts, nil
}

// LoadResolvedDataset reads a dataset like LoadDataset and geocodes the
// location text of events that have no coordinates, so the radius filter can
// place them. Lookup failures leave those events unplaced and are only logged.
func LoadResolvedDataset(ctx context.Context, fs afero.Fs, path string, g geocoding.Geocoder, workers int) ([]models.Event, error) {
	evts, err := LoadDataset(fs, path)
	if err != nil {
		return nil, err
	}
	n, err := ResolveMissingCoordinates(ctx, g, evts, workers)
	if err != nil {
		log.Printf("[discovery] dataset %s: resolved %d event locations, some failed: %v", path, n, err)
	} else if n > 0 {
		log.Printf("[discovery] dataset %s: resolved %d event locations", path, n)
	}
	return evts, nil
}

// LocalSource answers queries from an in-memory dataset with the same
// filtering, ordering and cap as the server.
type LocalSource struct {
	svc *events.Service
}

// NewLocalSource serves evts.
func NewLocalSource(evts []models.Event) *LocalSource {
	return &LocalSource{svc: events.NewService(events.NewSliceStore(evts))}
}

// WithClock overrides the clock used for the default time window.
func (s *LocalSource) WithClock(now func() time.Time) *LocalSource {
	s.svc.WithClock(now)
	return s
}

// FetchEvents implements EventSource.
func (s *LocalSource) FetchEvents(ctx context.Context, p models.QueryParameters) ([]models.Event, error) {
	return s.svc.Query(ctx, p)
}
