package models

// Selection is either no selection (EventID == "") or a selected event id.
type Selection struct {
	EventID string `json:"eventId,omitempty"`
}

// NoSelection is the idle selection state.
var NoSelection = Selection{}

// Selected returns the selection for id.
func Selected(id string) Selection { return Selection{EventID: id} }

// IsSelected reports whether an event is selected.
func (s Selection) IsSelected() bool { return s.EventID != "" }

// Marker is a map annotation derived 1:1 from an Event.
type Marker struct {
	EventID  string      `json:"eventId"`
	Title    string      `json:"title"`
	Snippet  string      `json:"snippet"`            // "<date> <time>"
	Position *Coordinate `json:"position,omitempty"` // nil when the event has no coordinates
	Unplaced bool        `json:"unplaced"`
}

// NewMarker builds the marker for e.
func NewMarker(e Event) Marker {
	m := Marker{
		EventID: e.EventID,
		Title:   e.EventTitle,
		Snippet: StringVal(e.EventDate, "N/A") + " " + StringVal(e.EventTime, "N/A"),
	}
	if c, ok := e.Coordinate(); ok {
		m.Position = &c
	} else {
		m.Unplaced = true
	}
	return m
}

// EventDetail is the detail panel content for a selected event.
type EventDetail struct {
	EventID    string `json:"eventId"`
	Title      string `json:"title"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Location   string `json:"location"`
	PriceLabel string `json:"priceLabel"`
	LinkURL    string `json:"linkUrl,omitempty"`
	ImageURL   string `json:"imageUrl,omitempty"`
}

// PriceLabel describes the free/paid flag for display.
func PriceLabel(isFree *int) string {
	switch {
	case isFree == nil:
		return "Event Price: N/A"
	case *isFree == 1:
		return "Free Event"
	default:
		return "Paid Event"
	}
}
