package models

// Coordinate is a WGS 84 position in degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Span is the visible extent of a map region in degrees.
type Span struct {
	LatitudeDelta  float64 `json:"latitudeDelta"`
	LongitudeDelta float64 `json:"longitudeDelta"`
}

// Region is a map viewport.
type Region struct {
	Center Coordinate `json:"center"`
	Span   Span       `json:"span"`
}

var (
	// SeattleCenter is the initial map center before any search.
	SeattleCenter = Coordinate{Latitude: 47.6062, Longitude: -122.3321}

	// SearchSpan frames a fresh search origin (roughly city scale).
	SearchSpan = Span{LatitudeDelta: 0.35, LongitudeDelta: 0.35}

	// DetailSpan frames a single selected event.
	DetailSpan = Span{LatitudeDelta: 0.02, LongitudeDelta: 0.02}
)

// DefaultRegion is the region a new map view starts with.
func DefaultRegion() Region {
	return Region{Center: SeattleCenter, Span: SearchSpan}
}
