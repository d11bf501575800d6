// Package mapsync keeps the rendered markers, the selection and the visible
// map region consistent with the current event list.
package mapsync

//go:generate mockgen -source=controller.go -destination=mocks/mock_renderer.go -package=mocks

import (
	"errors"
	"fmt"
	"log"

	"parenteye/models"
	"parenteye/utils"
)

// ErrUnknownEvent is returned when a tap names an event not in the current list.
var ErrUnknownEvent = errors.New("event not in current list")

// Renderer draws markers and moves the map. Calls arrive on the update loop.
type Renderer interface {
	ClearMarkers()
	AddMarker(m models.Marker)
	AnimateRegion(r models.Region)
}

// Controller is the selection and region state machine for one map. It is
// not safe for concurrent use; drive it from a single Loop.
type Controller struct {
	renderer    Renderer
	contentBase string

	events    []models.Event
	index     map[string]int
	markers   []models.Marker
	selection models.Selection
	region    models.Region
}

// NewController starts idle at initial with an empty event list.
func NewController(r Renderer, initial models.Region, contentBase string) *Controller {
	return &Controller{
		renderer:    r,
		contentBase: contentBase,
		index:       map[string]int{},
		region:      initial,
	}
}

// OnNewEventList replaces every rendered marker with one per event in list.
// The selection survives only if its event is still present.
func (c *Controller) OnNewEventList(list []models.Event) {
	c.events = list
	c.index = models.IndexByID(list)

	c.renderer.ClearMarkers()
	c.markers = make([]models.Marker, 0, len(list))
	for _, e := range list {
		m := models.NewMarker(e)
		c.markers = append(c.markers, m)
		c.renderer.AddMarker(m)
	}

	if c.selection.IsSelected() {
		if _, ok := c.index[c.selection.EventID]; !ok {
			log.Printf("[mapsync] selected event %s dropped by refresh", c.selection.EventID)
			c.selection = models.NoSelection
		}
	}
}

// OnMarkerTap selects eventID and zooms to it. Events without coordinates are
// selected without moving the map.
func (c *Controller) OnMarkerTap(eventID string) error {
	i, ok := c.index[eventID]
	if !ok {
		return fmt.Errorf("tap %s: %w", eventID, ErrUnknownEvent)
	}
	c.selection = models.Selected(eventID)

	if center, ok := c.events[i].Coordinate(); ok {
		c.setRegion(models.Region{Center: center, Span: models.DetailSpan})
	}
	return nil
}

// OnMarkerDeselect returns to idle. The region is left where it is.
func (c *Controller) OnMarkerDeselect() {
	c.selection = models.NoSelection
}

// OnExternalRegionRequest moves the map without touching the selection.
// It reports whether the region changed.
func (c *Controller) OnExternalRegionRequest(center models.Coordinate, span models.Span) bool {
	return c.setRegion(models.Region{Center: center, Span: span})
}

// setRegion applies r only if its center differs from the current one.
func (c *Controller) setRegion(r models.Region) bool {
	if r.Center == c.region.Center {
		return false
	}
	c.region = r
	c.renderer.AnimateRegion(r)
	return true
}

// Selection returns the current selection.
func (c *Controller) Selection() models.Selection { return c.selection }

// Region returns the current region.
func (c *Controller) Region() models.Region { return c.region }

// Events returns the current event list.
func (c *Controller) Events() []models.Event { return c.events }

// Markers returns the markers derived from the current list.
func (c *Controller) Markers() []models.Marker { return c.markers }

// Detail returns the panel content for the selected event.
func (c *Controller) Detail() (models.EventDetail, bool) {
	if !c.selection.IsSelected() {
		return models.EventDetail{}, false
	}
	i, ok := c.index[c.selection.EventID]
	if !ok {
		return models.EventDetail{}, false
	}
	e := c.events[i]
	return models.EventDetail{
		EventID:    e.EventID,
		Title:      e.EventTitle,
		Date:       models.StringVal(e.EventDate, "N/A"),
		Time:       models.StringVal(e.EventTime, "N/A"),
		Location:   models.StringVal(e.EventLocation, "N/A"),
		PriceLabel: models.PriceLabel(e.IsFree),
		LinkURL:    utils.ResolveContentURL(c.contentBase, models.StringVal(e.LinkURL, "")),
		ImageURL:   utils.ResolveContentURL(c.contentBase, models.StringVal(e.ImgURL, "")),
	}, true
}
