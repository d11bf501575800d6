package database

import (
	"context"
	"database/sql/driver"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"parenteye/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestEventRepo creates a migrated sqlite database in a temp directory.
func setupTestEventRepo(t *testing.T) *EventRepository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "nested", "events.db")
	db, err := NewDB(Config{DatabasePath: dbPath})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db.Events
}

func TestNewDB_RequiresPath(t *testing.T) {
	_, err := NewDB(Config{})
	require.Error(t, err)
}

func TestEventRepository_UpsertAndWindow(t *testing.T) {
	repo := setupTestEventRepo(t)
	ctx := context.Background()

	events := []models.Event{
		{EventID: "late", EventTitle: "Late", EventTimestamp: models.Int64Ptr(3000)},
		{EventID: "early", EventTitle: "Early", EventTimestamp: models.Int64Ptr(1000),
			EventDate: models.StringPtr("Friday, Nov. 15"), IsFree: models.IntPtr(1),
			LocationLat: models.Float64Ptr(47.6), LocationLng: models.Float64Ptr(-122.3)},
		{EventID: "untimed", EventTitle: "No timestamp"},
		{EventID: "mid", EventTitle: "Mid", EventTimestamp: models.Int64Ptr(2000)},
	}
	require.NoError(t, repo.UpsertEvents(ctx, events))

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	got, err := repo.EventsBetween(ctx, time.Unix(1000, 0), time.Unix(2500, 0))
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Storage order, not timestamp order.
	assert.Equal(t, "early", got[0].EventID)
	assert.Equal(t, "mid", got[1].EventID)

	early := got[0]
	require.NotNil(t, early.EventDate)
	assert.Equal(t, "Friday, Nov. 15", *early.EventDate)
	require.NotNil(t, early.IsFree)
	assert.Equal(t, 1, *early.IsFree)
	c, ok := early.Coordinate()
	require.True(t, ok)
	assert.InDelta(t, 47.6, c.Latitude, 1e-9)
	assert.Nil(t, early.LinkURL)
	assert.Nil(t, got[1].LocationLat)
}

func TestEventRepository_UpsertKeepsStorageOrder(t *testing.T) {
	repo := setupTestEventRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertEvents(ctx, []models.Event{
		{EventID: "a", EventTitle: "A", EventTimestamp: models.Int64Ptr(10)},
		{EventID: "b", EventTitle: "B", EventTimestamp: models.Int64Ptr(10)},
	}))
	require.NoError(t, repo.UpsertEvents(ctx, []models.Event{
		{EventID: "a", EventTitle: "A (updated)", EventTimestamp: models.Int64Ptr(10)},
	}))

	got, err := repo.EventsBetween(ctx, time.Unix(0, 0), time.Unix(100, 0))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].EventID)
	assert.Equal(t, "A (updated)", got[0].EventTitle)
	assert.Equal(t, "b", got[1].EventID)
}

func TestEventRepository_UpsertRejectsMissingID(t *testing.T) {
	repo := setupTestEventRepo(t)
	err := repo.UpsertEvents(context.Background(), []models.Event{{EventTitle: "orphan"}})
	require.Error(t, err)

	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n, "failed batch must roll back")
}

func TestEventRepository_GetEvent(t *testing.T) {
	repo := setupTestEventRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.UpsertEvents(ctx, []models.Event{{EventID: "e1", EventTitle: "Zoo"}}))

	e, err := repo.GetEvent(ctx, "e1")
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, "Zoo", e.EventTitle)

	missing, err := repo.GetEvent(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestEventRepository_QueryFailurePropagates(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	storeErr := errors.New("disk I/O error")
	mock.ExpectQuery("SELECT .* FROM events WHERE eventTimestamp").
		WithArgs(int64(100), int64(200)).
		WillReturnError(storeErr)

	repo := NewEventRepository(db)
	_, err = repo.EventsBetween(context.Background(), time.Unix(100, 0), time.Unix(200, 0))
	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_ScansNullColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	row := make([]any, len(eventColumns))
	row[0] = "e1"
	row[3] = "Title only"
	row[22] = int64(150)
	mock.ExpectQuery("SELECT .* FROM events").
		WillReturnRows(sqlmock.NewRows(eventColumns).AddRow(toDriverValues(row)...))

	got, err := NewEventRepository(db).EventsBetween(context.Background(), time.Unix(100, 0), time.Unix(200, 0))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Title only", got[0].EventTitle)
	require.NotNil(t, got[0].EventTimestamp)
	assert.Equal(t, int64(150), *got[0].EventTimestamp)
	assert.Nil(t, got[0].EventDate)
	assert.Nil(t, got[0].LocationLng)
}

func toDriverValues(vals []any) []driver.Value {
	out := make([]driver.Value, len(vals))
	for i, v := range vals {
		out[i] = v
	}
	return out
}
