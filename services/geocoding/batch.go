package geocoding

import (
	"context"
	"fmt"
	"log"
	"sync"

	"parenteye/models"

	"github.com/hashicorp/go-multierror"
	"github.com/sourcegraph/conc/pool"
)

// Resolution is the outcome of geocoding one input of a batch.
type Resolution struct {
	Index      int
	Query      string
	Coordinate models.Coordinate
	Err        error // nil on success
}

// OK reports whether the lookup succeeded.
func (r Resolution) OK() bool { return r.Err == nil }

// collector gathers batch results keyed by input index.
type collector struct {
	mu      sync.Mutex
	results []Resolution
	done    int
}

func newCollector(n int) *collector {
	return &collector{results: make([]Resolution, n)}
}

func (c *collector) report(r Resolution) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results[r.Index] = r
	c.done++
}

// ResolveAll geocodes every query concurrently (at most maxWorkers in flight)
// and returns exactly one Resolution per input, in input order. It returns only
// after every launched lookup has reported. Failed lookups are kept as entries
// with Err set; the returned error aggregates them and is nil when all succeed.
func ResolveAll(ctx context.Context, g Geocoder, queries []string, maxWorkers int) ([]Resolution, error) {
	if len(queries) == 0 {
		return []Resolution{}, nil
	}
	if maxWorkers <= 0 {
		maxWorkers = 4
	}

	col := newCollector(len(queries))
	p := pool.New().WithMaxGoroutines(maxWorkers)
	for i, q := range queries {
		i, q := i, q
		p.Go(func() {
			r := Resolution{Index: i, Query: q}
			r.Coordinate, r.Err = g.Geocode(ctx, q)
			col.report(r)
		})
	}
	p.Wait()

	var merr *multierror.Error
	for _, r := range col.results {
		if r.Err != nil {
			merr = multierror.Append(merr, fmt.Errorf("%q: %w", r.Query, r.Err))
		}
	}
	if err := merr.ErrorOrNil(); err != nil {
		log.Printf("[geocoding] batch resolved %d/%d (reported %d)", len(queries)-merr.Len(), len(queries), col.done)
		return col.results, err
	}
	return col.results, nil
}
