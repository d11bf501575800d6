// Package geocoding resolves free-text locations (zip codes, addresses) to coordinates.
package geocoding

//go:generate mockgen -source=geocoder.go -destination=mocks/mock_geocoder.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"parenteye/models"
)

var (
	// ErrNoResults is returned when a query resolves to nothing.
	ErrNoResults = errors.New("no geocoding results")

	// ErrEmptyQuery is returned for blank location text.
	ErrEmptyQuery = errors.New("empty location query")
)

// Geocoder resolves location text to a coordinate.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (models.Coordinate, error)
}

// Static resolves from a fixed table, keyed by normalized query. It backs
// offline configurations and tests.
type Static map[string]models.Coordinate

// NewStatic builds a Static geocoder, normalizing the keys of places.
func NewStatic(places map[string]models.Coordinate) Static {
	s := make(Static, len(places))
	for k, v := range places {
		s[NormalizeQuery(k)] = v
	}
	return s
}

// Geocode implements Geocoder.
func (s Static) Geocode(ctx context.Context, query string) (models.Coordinate, error) {
	if err := ctx.Err(); err != nil {
		return models.Coordinate{}, err
	}
	key := NormalizeQuery(query)
	if key == "" {
		return models.Coordinate{}, ErrEmptyQuery
	}
	c, ok := s[key]
	if !ok {
		return models.Coordinate{}, fmt.Errorf("%w for %q", ErrNoResults, strings.TrimSpace(query))
	}
	return c, nil
}
