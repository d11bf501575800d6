package geocoding

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"parenteye/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reverseDelayGeocoder finishes later inputs first and records peak concurrency.
type reverseDelayGeocoder struct {
	total    int
	inFlight atomic.Int32
	peak     atomic.Int32
	fail     map[string]bool
}

func (g *reverseDelayGeocoder) Geocode(ctx context.Context, query string) (models.Coordinate, error) {
	n := g.inFlight.Add(1)
	defer g.inFlight.Add(-1)
	for {
		p := g.peak.Load()
		if n <= p || g.peak.CompareAndSwap(p, n) {
			break
		}
	}

	i, _ := strconv.Atoi(query[len("item-"):])
	time.Sleep(time.Duration(g.total-i) * 2 * time.Millisecond)
	if g.fail[query] {
		return models.Coordinate{}, fmt.Errorf("%w for %q", ErrNoResults, query)
	}
	return models.Coordinate{Latitude: float64(i), Longitude: -float64(i)}, nil
}

func queriesN(n int) []string {
	q := make([]string, n)
	for i := range q {
		q[i] = fmt.Sprintf("item-%d", i)
	}
	return q
}

func TestResolveAll_OneEntryPerInputRegardlessOfCompletionOrder(t *testing.T) {
	const n = 40
	g := &reverseDelayGeocoder{total: n}

	results, err := ResolveAll(context.Background(), g, queriesN(n), 8)
	require.NoError(t, err)
	require.Len(t, results, n)

	for i, r := range results {
		assert.Equal(t, i, r.Index)
		assert.Equal(t, fmt.Sprintf("item-%d", i), r.Query)
		assert.True(t, r.OK())
		assert.Equal(t, float64(i), r.Coordinate.Latitude)
	}
	assert.LessOrEqual(t, g.peak.Load(), int32(8))
	assert.Zero(t, g.inFlight.Load(), "ResolveAll returned before every lookup reported")
}

func TestResolveAll_FailuresKeptAsEntries(t *testing.T) {
	g := &reverseDelayGeocoder{total: 5, fail: map[string]bool{"item-1": true, "item-3": true}}

	results, err := ResolveAll(context.Background(), g, queriesN(5), 3)
	require.Error(t, err)
	require.Len(t, results, 5)

	var failed []int
	for _, r := range results {
		if !r.OK() {
			failed = append(failed, r.Index)
			assert.ErrorIs(t, r.Err, ErrNoResults)
		}
	}
	assert.Equal(t, []int{1, 3}, failed)
	assert.Contains(t, err.Error(), "item-1")
	assert.Contains(t, err.Error(), "item-3")
}

func TestResolveAll_Empty(t *testing.T) {
	results, err := ResolveAll(context.Background(), &reverseDelayGeocoder{}, nil, 4)
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}
