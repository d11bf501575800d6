package events_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"parenteye/internal/geo"
	"parenteye/models"
	"parenteye/services/events"
	"parenteye/services/events/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var (
	seattle  = models.Coordinate{Latitude: 47.6062, Longitude: -122.3321}
	fixedNow = time.Date(2024, time.November, 14, 12, 0, 0, 0, time.UTC)
)

func clock() time.Time { return fixedNow }

// eventAt places an event distanceKm east of origin, offsetting its timestamp from fixedNow.
func eventAt(id string, origin models.Coordinate, distanceKm float64, offset time.Duration) models.Event {
	p := geo.Destination(origin, 90, distanceKm)
	return models.Event{
		EventID:        id,
		EventTitle:     id,
		EventTimestamp: models.Int64Ptr(fixedNow.Add(offset).Unix()),
		LocationLat:    models.Float64Ptr(p.Latitude),
		LocationLng:    models.Float64Ptr(p.Longitude),
	}
}

func ids(events []models.Event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.EventID
	}
	return out
}

func newService(evts ...models.Event) *events.Service {
	return events.NewService(events.NewSliceStore(evts)).WithClock(clock)
}

func TestQuery_RadiusScenario(t *testing.T) {
	svc := newService(
		eventAt("d9", seattle, 9, 1*time.Hour),
		eventAt("d11", seattle, 11, 30*time.Minute),
		eventAt("d2", seattle, 2, 3*time.Hour),
		eventAt("d5", seattle, 5, 2*time.Hour),
	)

	got, err := svc.Query(context.Background(), models.QueryParameters{
		Origin:     seattle,
		RadiusKm:   10,
		MaxResults: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"d9", "d5", "d2"}, ids(got))
}

func TestQuery_StableTiesAndCapAfterSort(t *testing.T) {
	svc := newService(
		eventAt("late", seattle, 1, 5*time.Hour),
		eventAt("tie-a", seattle, 1, 1*time.Hour),
		eventAt("tie-b", seattle, 1, 1*time.Hour),
		eventAt("earliest", seattle, 1, 10*time.Minute),
	)

	got, err := svc.Query(context.Background(), models.QueryParameters{
		Origin:     seattle,
		RadiusKm:   5,
		MaxResults: 3,
	})
	require.NoError(t, err)
	// The cap keeps the nearest-in-time events, not the first ones in storage.
	assert.Equal(t, []string{"earliest", "tie-a", "tie-b"}, ids(got))
}

func TestQuery_TimeWindow(t *testing.T) {
	svc := newService(
		eventAt("past", seattle, 1, -1*time.Hour),
		eventAt("soon", seattle, 1, 24*time.Hour),
		eventAt("next-year", seattle, 1, 365*24*time.Hour),
		models.Event{EventID: "untimed", LocationLat: models.Float64Ptr(seattle.Latitude), LocationLng: models.Float64Ptr(seattle.Longitude)},
	)

	got, err := svc.Query(context.Background(), models.QueryParameters{Origin: seattle, RadiusKm: 10, MaxResults: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"soon"}, ids(got))

	got, err = svc.Query(context.Background(), models.QueryParameters{
		Origin:      seattle,
		RadiusKm:    10,
		MaxResults:  10,
		WindowStart: fixedNow.Add(-2 * time.Hour),
		WindowEnd:   fixedNow.Add(400 * 24 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"past", "soon", "next-year"}, ids(got))
}

func TestQuery_ExactDate(t *testing.T) {
	fri := eventAt("fri", seattle, 1, 2*time.Hour)
	fri.EventDate = models.StringPtr("Friday, Nov. 15")
	sat := eventAt("sat", seattle, 1, 1*time.Hour)
	sat.EventDate = models.StringPtr("Saturday, Nov. 16")

	got, err := newService(fri, sat).Query(context.Background(), models.QueryParameters{
		Origin: seattle, RadiusKm: 10, MaxResults: 1, ExactDate: "Friday, Nov. 15",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"fri"}, ids(got))
}

func TestQuery_MissingCoordinatesExcluded(t *testing.T) {
	// (0, 0) would be ~13,000 km away; a query there must still not match coordinate-less events.
	noCoords := models.Event{EventID: "nowhere", EventTimestamp: models.Int64Ptr(fixedNow.Add(time.Hour).Unix())}
	got, err := newService(noCoords).Query(context.Background(), models.QueryParameters{
		Origin: models.Coordinate{}, RadiusKm: 1, MaxResults: 10,
	})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestQuery_EmptyResultIsNotAnError(t *testing.T) {
	got, err := newService().Query(context.Background(), models.QueryParameters{Origin: seattle, RadiusKm: 10, MaxResults: 10})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestQuery_InvalidParameters(t *testing.T) {
	tests := []struct {
		name string
		p    models.QueryParameters
	}{
		{"nan latitude", models.QueryParameters{Origin: models.Coordinate{Latitude: math.NaN()}, RadiusKm: 1, MaxResults: 1}},
		{"inf longitude", models.QueryParameters{Origin: models.Coordinate{Longitude: math.Inf(1)}, RadiusKm: 1, MaxResults: 1}},
		{"zero radius", models.QueryParameters{Origin: seattle, RadiusKm: 0, MaxResults: 1}},
		{"negative radius", models.QueryParameters{Origin: seattle, RadiusKm: -3, MaxResults: 1}},
		{"nan radius", models.QueryParameters{Origin: seattle, RadiusKm: math.NaN(), MaxResults: 1}},
		{"zero cap", models.QueryParameters{Origin: seattle, RadiusKm: 1, MaxResults: 0}},
		{"inverted window", models.QueryParameters{Origin: seattle, RadiusKm: 1, MaxResults: 1,
			WindowStart: fixedNow, WindowEnd: fixedNow.Add(-time.Hour)}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := mocks.NewMockStore(ctrl) // no calls expected: rejected before the store is read

			_, err := events.NewService(store).WithClock(clock).Query(context.Background(), tc.p)
			require.Error(t, err)
			assert.ErrorIs(t, err, events.ErrInvalidParameter)
		})
	}
}

func TestQuery_StoreFailurePropagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	storeErr := errors.New("database is locked")

	store.EXPECT().
		EventsBetween(gomock.Any(), fixedNow, fixedNow.AddDate(0, 1, 0)).
		Return(nil, storeErr)

	_, err := events.NewService(store).WithClock(clock).Query(context.Background(), models.QueryParameters{
		Origin: seattle, RadiusKm: 10, MaxResults: 10,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, events.ErrQueryExecution)
	assert.ErrorIs(t, err, storeErr)

	var qe *events.QueryExecutionError
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, storeErr, qe.Err)
}

func TestSliceStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := events.NewSliceStore(nil).EventsBetween(ctx, fixedNow, fixedNow)
	assert.ErrorIs(t, err, context.Canceled)
}
