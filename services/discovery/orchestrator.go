// Package discovery turns a user-entered location and date into the event
// list shown on the map.
package discovery

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"parenteye/models"
	"parenteye/services/geocoding"
)

// EventSource returns events around an origin. The remote backend and the
// offline dataset both implement it.
type EventSource interface {
	FetchEvents(ctx context.Context, p models.QueryParameters) ([]models.Event, error)
}

// Config holds the fixed query parameters used for every search.
type Config struct {
	RadiusKm   float64
	MaxResults int
	// Location is the time zone target dates are formatted in.
	Location *time.Location
	// ResolveMissingCoordinates geocodes the location text of returned events
	// that carry no coordinates. RemoteSource and LocalSource never return
	// such events; resolve an offline dataset with LoadResolvedDataset instead.
	ResolveMissingCoordinates bool
	GeocodeWorkers            int
}

// DefaultConfig matches the mobile client: 80 km, 100 results.
func DefaultConfig() Config {
	return Config{
		RadiusKm:       80,
		MaxResults:     100,
		Location:       time.Local,
		GeocodeWorkers: 4,
	}
}

// Result is the outcome of one Discover call.
type Result struct {
	Token      uint64
	Location   string
	TargetDate string
	Origin     models.Coordinate
	Events     []models.Event
	Err        error
}

// State is the event list and error message owned by a screen. It must only
// be mutated from that screen's update loop, through Apply.
type State struct {
	Events       []models.Event
	ErrorMessage string
	Origin       *models.Coordinate
}

// Orchestrator runs the geocode, query and date refinement pipeline.
type Orchestrator struct {
	geocoder geocoding.Geocoder
	source   EventSource
	cfg      Config
	now      func() time.Time
	seq      atomic.Uint64
}

// NewOrchestrator creates an orchestrator; zero config fields take DefaultConfig values.
func NewOrchestrator(g geocoding.Geocoder, source EventSource, cfg Config) *Orchestrator {
	def := DefaultConfig()
	if cfg.RadiusKm <= 0 {
		cfg.RadiusKm = def.RadiusKm
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = def.MaxResults
	}
	if cfg.Location == nil {
		cfg.Location = def.Location
	}
	if cfg.GeocodeWorkers <= 0 {
		cfg.GeocodeWorkers = def.GeocodeWorkers
	}
	return &Orchestrator{geocoder: g, source: source, cfg: cfg, now: time.Now}
}

// WithClock replaces the time source used for the query window.
func (o *Orchestrator) WithClock(now func() time.Time) *Orchestrator {
	o.now = now
	return o
}

// Discover resolves locationText, queries the source for targetDate and
// refines the result to events on exactly that date. It never touches State;
// the caller hands the Result to Apply on its update loop.
func (o *Orchestrator) Discover(ctx context.Context, locationText string, targetDate time.Time) Result {
	res := Result{Token: o.seq.Add(1), Location: locationText}

	origin, err := o.geocoder.Geocode(ctx, locationText)
	if err != nil {
		log.Printf("[discovery] geocoding %q failed: %v", locationText, err)
		res.Err = &GeocodingError{Location: locationText, Err: err}
		return res
	}
	res.Origin = origin
	res.TargetDate = FormatDisplayDate(targetDate, o.cfg.Location)

	params := models.QueryParameters{
		Origin:     origin,
		RadiusKm:   o.cfg.RadiusKm,
		MaxResults: o.cfg.MaxResults,
		ExactDate:  res.TargetDate,
	}.WithWindowDefaults(o.now())

	fetched, err := o.source.FetchEvents(ctx, params)
	if err != nil {
		log.Printf("[discovery] fetch near (%.5f, %.5f) for %q failed: %v",
			origin.Latitude, origin.Longitude, res.TargetDate, err)
		res.Err = err
		return res
	}

	refined := FilterByDate(fetched, res.TargetDate)
	if o.cfg.ResolveMissingCoordinates {
		n, err := ResolveMissingCoordinates(ctx, o.geocoder, refined, o.cfg.GeocodeWorkers)
		if err != nil {
			log.Printf("[discovery] resolved %d event locations, some failed: %v", n, err)
		}
	}

	log.Printf("[discovery] %q on %s: %d fetched, %d on date", locationText, res.TargetDate, len(fetched), len(refined))
	res.Events = refined
	return res
}

// Latest returns the token of the most recently started Discover call.
func (o *Orchestrator) Latest() uint64 { return o.seq.Load() }

// Apply writes r into st unless a newer Discover call has started since r's,
// in which case st is left untouched and ErrSuperseded is returned. On
// failure the previous event list is kept and only the message changes.
func (o *Orchestrator) Apply(st *State, r Result) error {
	if latest := o.Latest(); r.Token != latest {
		log.Printf("[discovery] dropping stale result %d (latest %d)", r.Token, latest)
		return ErrSuperseded
	}
	if r.Err != nil {
		st.ErrorMessage = UserMessage(r.Err)
		return nil
	}
	origin := r.Origin
	st.Events = r.Events
	st.Origin = &origin
	st.ErrorMessage = ""
	return nil
}
