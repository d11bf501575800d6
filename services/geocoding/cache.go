package geocoding

import (
	"context"
	"strings"

	"parenteye/models"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var folder = cases.Fold()

// NormalizeQuery canonicalizes location text for cache keys: NFC, case-folded,
// internal whitespace collapsed.
func NormalizeQuery(q string) string {
	q = norm.NFC.String(q)
	q = folder.String(q)
	return strings.Join(strings.Fields(q), " ")
}

// Cached memoizes successful lookups of an underlying Geocoder and collapses
// concurrent lookups of the same query into one upstream call.
type Cached struct {
	next  Geocoder
	cache *lru.Cache[string, models.Coordinate]
	group singleflight.Group
}

// NewCached wraps next with an LRU of the given size.
func NewCached(next Geocoder, size int) (*Cached, error) {
	if size <= 0 {
		size = 512
	}
	cache, err := lru.New[string, models.Coordinate](size)
	if err != nil {
		return nil, err
	}
	return &Cached{next: next, cache: cache}, nil
}

// Geocode implements Geocoder.
func (c *Cached) Geocode(ctx context.Context, query string) (models.Coordinate, error) {
	key := NormalizeQuery(query)
	if key == "" {
		return models.Coordinate{}, ErrEmptyQuery
	}
	if coord, ok := c.cache.Get(key); ok {
		return coord, nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		coord, err := c.next.Geocode(ctx, query)
		if err != nil {
			return nil, err
		}
		c.cache.Add(key, coord)
		return coord, nil
	})
	if err != nil {
		return models.Coordinate{}, err
	}
	return v.(models.Coordinate), nil
}

// Len reports the number of cached entries.
func (c *Cached) Len() int { return c.cache.Len() }
