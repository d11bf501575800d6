package discovery

import (
	"context"
	"strings"

	"parenteye/models"
	"parenteye/services/geocoding"
)

// locationText picks the free text used to geocode an event without coordinates.
func locationText(e models.Event) string {
	for _, s := range []*string{e.VenueAddress, e.EventLocation, e.VenueName} {
		if v := strings.TrimSpace(models.StringVal(s, "")); v != "" {
			return v
		}
	}
	return ""
}

// ResolveMissingCoordinates geocodes the location text of every event that has
// no coordinates, concurrently, and fills in the ones that resolve. evts is
// modified in place. Events with no usable location text are left alone.
// The returned error aggregates the per-event failures.
func ResolveMissingCoordinates(ctx context.Context, g geocoding.Geocoder, evts []models.Event, workers int) (int, error) {
	var (
		positions []int
		queries   []string
	)
	for i, e := range evts {
		if _, ok := e.Coordinate(); ok {
			continue
		}
		if q := locationText(e); q != "" {
			positions = append(positions, i)
			queries = append(queries, q)
		}
	}
	if len(queries) == 0 {
		return 0, nil
	}

	results, err := geocoding.ResolveAll(ctx, g, queries, workers)
	resolved := 0
	for _, r := range results {
		if !r.OK() {
			continue
		}
		e := &evts[positions[r.Index]]
		e.LocationLat = models.Float64Ptr(r.Coordinate.Latitude)
		e.LocationLng = models.Float64Ptr(r.Coordinate.Longitude)
		resolved++
	}
	return resolved, err
}
