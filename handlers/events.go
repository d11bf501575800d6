package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"parenteye/models"
	"parenteye/services/events"
)

// eventQuerier runs a proximity query.
type eventQuerier interface {
	Query(ctx context.Context, p models.QueryParameters) ([]models.Event, error)
}

// resultObserver records response sizes.
type resultObserver interface {
	ObserveResults(n int)
}

// QueryDefaults are applied to omitted query string parameters.
type QueryDefaults struct {
	Latitude       float64
	Longitude      float64
	RangeInKm      float64
	NumOfResult    int
	MaxNumOfResult int
}

// DefaultQueryDefaults matches the hosted backend.
func DefaultQueryDefaults() QueryDefaults {
	return QueryDefaults{
		Latitude:       47.6091814,
		Longitude:      -122.1795901,
		RangeInKm:      10,
		NumOfResult:    10,
		MaxNumOfResult: 500,
	}
}

// EventsHandler serves the event query API.
type EventsHandler struct {
	Service  eventQuerier
	Defaults QueryDefaults
	Results  resultObserver
}

// NewEventsHandler creates a new EventsHandler. results may be nil.
func NewEventsHandler(service eventQuerier, defaults QueryDefaults, results resultObserver) *EventsHandler {
	return &EventsHandler{Service: service, Defaults: defaults, Results: results}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// Root answers GET /.
func (h *EventsHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"msg": "hello"})
}

// NotFound answers every unknown path.
func (h *EventsHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]string{"msg": "not found"})
}

// floatParam parses key, falling back to def when it is absent. A present but
// empty or non-finite value is an error.
func floatParam(q url.Values, key string, def float64) (float64, bool) {
	if !q.Has(key) {
		return def, true
	}
	v, err := strconv.ParseFloat(q.Get(key), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// parseQuery turns the query string into parameters, or the 400 message.
func (h *EventsHandler) parseQuery(q url.Values) (models.QueryParameters, string) {
	lat, okLat := floatParam(q, "latitude", h.Defaults.Latitude)
	lng, okLng := floatParam(q, "longitude", h.Defaults.Longitude)
	if !okLat || !okLng {
		return models.QueryParameters{}, "Invalid latitude or longitude"
	}

	radius, ok := floatParam(q, "rangeInKm", h.Defaults.RangeInKm)
	if !ok || radius <= 0 {
		return models.QueryParameters{}, "Invalid rangeInKm or numOfResult"
	}

	limit := h.Defaults.NumOfResult
	if q.Has("numOfResult") {
		n, err := strconv.Atoi(q.Get("numOfResult"))
		if err != nil || n <= 0 {
			return models.QueryParameters{}, "Invalid rangeInKm or numOfResult"
		}
		limit = n
	}
	if h.Defaults.MaxNumOfResult > 0 && limit > h.Defaults.MaxNumOfResult {
		limit = h.Defaults.MaxNumOfResult
	}

	return models.QueryParameters{
		Origin:     models.Coordinate{Latitude: lat, Longitude: lng},
		RadiusKm:   radius,
		MaxResults: limit,
		ExactDate:  q.Get("eventDate"),
	}, ""
}

// NearbyLatestEvents answers GET /getNearbyLatestEvents with the upcoming
// events around a point, soonest first.
func (h *EventsHandler) NearbyLatestEvents(w http.ResponseWriter, r *http.Request) {
	params, msg := h.parseQuery(r.URL.Query())
	if msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	found, err := h.Service.Query(r.Context(), params)
	if err != nil {
		if errors.Is(err, events.ErrInvalidParameter) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		log.Printf("[events] nearby query failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Failed to fetch events",
			"details": err.Error(),
		})
		return
	}

	if found == nil {
		found = []models.Event{}
	}
	if h.Results != nil {
		h.Results.ObserveResults(len(found))
	}
	writeJSON(w, http.StatusOK, found)
}
