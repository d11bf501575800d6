package discovery

import (
	"errors"
	"fmt"

	"parenteye/services/events"
)

var (
	// ErrGeocoding marks a location that could not be resolved.
	ErrGeocoding = errors.New("geocoding failed")

	// ErrDecoding marks an event payload that did not match the expected schema.
	ErrDecoding = errors.New("failed to decode events")

	// ErrNetwork marks a transport-level failure reaching the event source.
	ErrNetwork = errors.New("network failure")

	// ErrSuperseded is returned when a result arrives after a newer request started.
	ErrSuperseded = errors.New("superseded by a newer request")
)

// GeocodingError carries the location text that failed to resolve.
type GeocodingError struct {
	Location string
	Err      error
}

func (e *GeocodingError) Error() string {
	return fmt.Sprintf("geocode %q: %v", e.Location, e.Err)
}

func (e *GeocodingError) Unwrap() error { return e.Err }

func (e *GeocodingError) Is(target error) bool { return target == ErrGeocoding }

// UserMessage converts a pipeline error into the message shown to the user.
// It returns "" for nil.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var ge *GeocodingError
	switch {
	case errors.As(err, &ge):
		return fmt.Sprintf("Could not find location %q.", ge.Location)
	case errors.Is(err, ErrGeocoding):
		return "Could not find that location."
	case errors.Is(err, ErrDecoding):
		return "Failed to decode event data."
	case errors.Is(err, events.ErrInvalidParameter):
		return "Invalid search location or range."
	default:
		return "An unexpected error occurred while fetching events."
	}
}
