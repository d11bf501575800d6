package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"parenteye/models"
)

var eventColumns = []string{
	"eventId", "linkUrl", "imgUrl", "eventTitle", "eventYear", "eventDate", "eventTime",
	"eventLocation", "isEditorsChoice", "isFree", "types", "isVirtual", "datesDuration",
	"bigImgUrl", "eventContent", "detailedDates", "googleMapUrl", "price", "recommendedAge",
	"venueName", "venueAddress", "eventUrl", "eventTimestamp", "locationLat", "locationLng",
}

var (
	selectEventsSQL = "SELECT " + strings.Join(eventColumns, ", ") + " FROM events"

	upsertEventSQL = func() string {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(eventColumns)), ", ")
		updates := make([]string, 0, len(eventColumns)-1)
		for _, c := range eventColumns[1:] {
			updates = append(updates, c+" = excluded."+c)
		}
		return "INSERT INTO events (" + strings.Join(eventColumns, ", ") + ") VALUES (" + placeholders +
			") ON CONFLICT(eventId) DO UPDATE SET " + strings.Join(updates, ", ")
	}()
)

// EventRepository reads and writes the events table. Reads return rows in
// storage (rowid) order; re-importing an event keeps its original position.
type EventRepository struct {
	db *sql.DB
}

// NewEventRepository creates a repository over db.
func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

// EventsBetween returns events whose timestamp lies in [start, end], in storage order.
func (r *EventRepository) EventsBetween(ctx context.Context, start, end time.Time) ([]models.Event, error) {
	query := selectEventsSQL + " WHERE eventTimestamp >= ? AND eventTimestamp <= ? ORDER BY rowid"
	rows, err := r.db.QueryContext(ctx, query, start.Unix(), end.Unix())
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

// GetEvent returns a single event, or nil if it does not exist.
func (r *EventRepository) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	row := r.db.QueryRowContext(ctx, selectEventsSQL+" WHERE eventId = ?", id)
	e, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get event %s: %w", id, err)
	}
	return &e, nil
}

// UpsertEvents inserts or updates events in a single transaction.
func (r *EventRepository) UpsertEvents(ctx context.Context, events []models.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertEventSQL)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, e := range events {
		if strings.TrimSpace(e.EventID) == "" {
			return fmt.Errorf("event %q has no eventId", e.EventTitle)
		}
		if _, err := stmt.ExecContext(ctx, eventArgs(e)...); err != nil {
			return fmt.Errorf("upsert event %s: %w", e.EventID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Count returns the number of stored events.
func (r *EventRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM events").Scan(&n); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(s rowScanner) (models.Event, error) {
	var e models.Event
	err := s.Scan(
		&e.EventID, &e.LinkURL, &e.ImgURL, &e.EventTitle, &e.EventYear, &e.EventDate, &e.EventTime,
		&e.EventLocation, &e.IsEditorsChoice, &e.IsFree, &e.Types, &e.IsVirtual, &e.DatesDuration,
		&e.BigImgURL, &e.EventContent, &e.DetailedDates, &e.GoogleMapURL, &e.Price, &e.RecommendedAge,
		&e.VenueName, &e.VenueAddress, &e.EventURL, &e.EventTimestamp, &e.LocationLat, &e.LocationLng,
	)
	return e, err
}

func eventArgs(e models.Event) []any {
	return []any{
		e.EventID, e.LinkURL, e.ImgURL, e.EventTitle, e.EventYear, e.EventDate, e.EventTime,
		e.EventLocation, e.IsEditorsChoice, e.IsFree, e.Types, e.IsVirtual, e.DatesDuration,
		e.BigImgURL, e.EventContent, e.DetailedDates, e.GoogleMapURL, e.Price, e.RecommendedAge,
		e.VenueName, e.VenueAddress, e.EventURL, e.EventTimestamp, e.LocationLat, e.LocationLng,
	}
}
