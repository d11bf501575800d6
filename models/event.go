package models

import (
	"sort"
	"strings"
)

// Event is a scheduled event as stored and returned by the nearby-events API.
// Optional columns are pointers so absent values serialize as JSON null.
type Event struct {
	EventID         string   `json:"eventId"`
	LinkURL         *string  `json:"linkUrl"`
	ImgURL          *string  `json:"imgUrl"`
	EventTitle      string   `json:"eventTitle"`
	EventYear       *string  `json:"eventYear"`
	EventDate       *string  `json:"eventDate"` // display date, e.g. "Friday, Nov. 15"
	EventTime       *string  `json:"eventTime"`
	EventLocation   *string  `json:"eventLocation"`
	IsEditorsChoice *int     `json:"isEditorsChoice"`
	IsFree          *int     `json:"isFree"` // 1 = free, 0 = paid
	Types           *string  `json:"types"`
	IsVirtual       *int     `json:"isVirtual"`
	DatesDuration   *string  `json:"datesDuration"`
	BigImgURL       *string  `json:"bigImgUrl"`
	EventContent    *string  `json:"eventContent"`
	DetailedDates   *string  `json:"detailedDates"`
	GoogleMapURL    *string  `json:"googleMapUrl"`
	Price           *string  `json:"price"`
	RecommendedAge  *string  `json:"recommendedAge"`
	VenueName       *string  `json:"venueName"`
	VenueAddress    *string  `json:"venueAddress"`
	EventURL        *string  `json:"eventUrl"`
	EventTimestamp  *int64   `json:"eventTimestamp"` // seconds since epoch
	LocationLat     *float64 `json:"locationLat"`
	LocationLng     *float64 `json:"locationLng"`
}

// Coordinate returns the event position. ok is false unless both latitude and
// longitude are present; callers must not substitute (0, 0).
func (e Event) Coordinate() (Coordinate, bool) {
	if e.LocationLat == nil || e.LocationLng == nil {
		return Coordinate{}, false
	}
	return Coordinate{Latitude: *e.LocationLat, Longitude: *e.LocationLng}, true
}

// DateMatches reports whether the stored display date equals date exactly.
func (e Event) DateMatches(date string) bool {
	return e.EventDate != nil && *e.EventDate == date
}

// SortByTimestamp orders events ascending by timestamp in place. Events with
// equal timestamps keep their relative order; events without a timestamp go last.
func SortByTimestamp(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i].EventTimestamp, events[j].EventTimestamp
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a < *b
		}
	})
}

// IndexByID maps event ids to their position in events.
func IndexByID(events []Event) map[string]int {
	idx := make(map[string]int, len(events))
	for i, e := range events {
		idx[e.EventID] = i
	}
	return idx
}

// StringVal dereferences s, returning fallback for nil or blank values.
func StringVal(s *string, fallback string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return fallback
	}
	return *s
}

func StringPtr(s string) *string    { return &s }
func IntPtr(i int) *int             { return &i }
func Int64Ptr(i int64) *int64       { return &i }
func Float64Ptr(f float64) *float64 { return &f }
