// Package screen wires the discovery pipeline into a map controller for one
// screen session.
package screen

import (
	"context"
	"errors"
	"log"
	"time"

	"parenteye/models"
	"parenteye/services/discovery"
	"parenteye/services/mapsync"
)

// Snapshot is a consistent copy of everything the screen displays.
type Snapshot struct {
	Events       []models.Event
	Markers      []models.Marker
	ErrorMessage string
	Selection    models.Selection
	Region       models.Region
	Detail       *models.EventDetail
}

// Session owns the state of one screen. Pipeline work runs on the caller's
// goroutine; every state mutation is handed to the session's update loop.
type Session struct {
	orch  *discovery.Orchestrator
	loop  *mapsync.Loop
	ctrl  *mapsync.Controller
	state discovery.State
}

// NewSession starts a session rendering into r. Close releases its loop.
func NewSession(orch *discovery.Orchestrator, r mapsync.Renderer, contentBase string) *Session {
	return &Session{
		orch: orch,
		loop: mapsync.NewLoop(16),
		ctrl: mapsync.NewController(r, models.DefaultRegion(), contentBase),
	}
}

// FindNearby runs a search and, if it is still the latest one when it
// completes, publishes its events and re-centers the map on the searched
// location. A pipeline failure is recorded as the screen's error message and
// also returned. A result overtaken by a newer search returns
// discovery.ErrSuperseded and changes nothing.
func (s *Session) FindNearby(ctx context.Context, locationText string, date time.Time) error {
	res := s.orch.Discover(ctx, locationText, date)

	var applyErr error
	err := s.loop.Call(ctx, func() {
		if applyErr = s.orch.Apply(&s.state, res); applyErr != nil {
			return
		}
		if res.Err != nil {
			return
		}
		s.ctrl.OnNewEventList(s.state.Events)
		s.ctrl.OnExternalRegionRequest(res.Origin, models.SearchSpan)
	})
	if err != nil {
		return err
	}
	if applyErr != nil {
		return applyErr
	}
	if res.Err != nil {
		log.Printf("[screen] search %q failed: %s", locationText, discovery.UserMessage(res.Err))
	}
	return res.Err
}

// TapMarker selects eventID.
func (s *Session) TapMarker(ctx context.Context, eventID string) error {
	var tapErr error
	if err := s.loop.Call(ctx, func() { tapErr = s.ctrl.OnMarkerTap(eventID) }); err != nil {
		return err
	}
	return tapErr
}

// Deselect clears the selection.
func (s *Session) Deselect(ctx context.Context) error {
	return s.loop.Call(ctx, s.ctrl.OnMarkerDeselect)
}

// Snapshot returns the current screen state. If ctx ends before the loop
// reaches the request, the zero Snapshot is returned with ctx's error.
func (s *Session) Snapshot(ctx context.Context) (Snapshot, error) {
	out := make(chan Snapshot, 1)
	err := s.loop.Call(ctx, func() {
		snap := Snapshot{
			Events:       append([]models.Event(nil), s.ctrl.Events()...),
			Markers:      append([]models.Marker(nil), s.ctrl.Markers()...),
			ErrorMessage: s.state.ErrorMessage,
			Selection:    s.ctrl.Selection(),
			Region:       s.ctrl.Region(),
		}
		if d, ok := s.ctrl.Detail(); ok {
			snap.Detail = &d
		}
		out <- snap
	})
	if err != nil {
		return Snapshot{}, err
	}
	return <-out, nil
}

// Close stops the update loop.
func (s *Session) Close() { s.loop.Close() }

// IsSuperseded reports whether err only means a newer search won.
func IsSuperseded(err error) bool { return errors.Is(err, discovery.ErrSuperseded) }
