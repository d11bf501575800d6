package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"parenteye/config"
	"parenteye/models"
	"parenteye/services/discovery"
	"parenteye/services/geocoding"
	"parenteye/services/screen"

	"github.com/spf13/afero"
)

// textRenderer prints map updates to stdout.
type textRenderer struct{}

func (textRenderer) ClearMarkers() {}

func (textRenderer) AddMarker(m models.Marker) {
	if m.Unplaced {
		fmt.Printf("  [unplaced]           %s  (%s)\n", m.Title, m.Snippet)
		return
	}
	fmt.Printf("  (%9.5f,%10.5f) %s  (%s)\n", m.Position.Latitude, m.Position.Longitude, m.Title, m.Snippet)
}

func (textRenderer) AnimateRegion(r models.Region) {
	fmt.Printf("map -> (%.5f, %.5f) span %.2f\n", r.Center.Latitude, r.Center.Longitude, r.Span.LatitudeDelta)
}

func main() {
	configPath := flag.String("config", os.Getenv("PARENTEYE_CONFIG"), "path to YAML config")
	dateFlag := flag.String("date", time.Now().Format("2006-01-02"), "event date (YYYY-MM-DD)")
	flag.Parse()
	if flag.NArg() < 1 {
		log.Fatal("Usage: find_nearby [-config file] [-date YYYY-MM-DD] <zip code or address>")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	loc := cfg.Location()
	date, err := time.ParseInLocation("2006-01-02", *dateFlag, loc)
	if err != nil {
		log.Fatalf("Invalid date %q: %v", *dateFlag, err)
	}

	geocoder, err := geocoding.NewCached(geocoding.NewNominatim(geocoding.NominatimConfig{
		BaseURL:           cfg.Geocoding.BaseURL,
		UserAgent:         cfg.Geocoding.UserAgent,
		RequestsPerSecond: cfg.Geocoding.RequestsPerSecond,
		Attempts:          cfg.Client.RetryAttempts,
	}), cfg.Geocoding.CacheSize)
	if err != nil {
		log.Fatalf("Failed to create geocoder: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	var source discovery.EventSource
	switch {
	case cfg.Client.OfflineDataset != "" && cfg.Client.ResolveMissingCoordinates:
		evts, err := discovery.LoadResolvedDataset(ctx, afero.NewOsFs(), cfg.Client.OfflineDataset, geocoder, cfg.Geocoding.Workers)
		if err != nil {
			log.Fatalf("Failed to load offline dataset: %v", err)
		}
		source = discovery.NewLocalSource(evts)
	case cfg.Client.OfflineDataset != "":
		evts, err := discovery.LoadDataset(afero.NewOsFs(), cfg.Client.OfflineDataset)
		if err != nil {
			log.Fatalf("Failed to load offline dataset: %v", err)
		}
		source = discovery.NewLocalSource(evts)
	default:
		source = discovery.NewRemoteSource(cfg.Client.BackendURL, nil, cfg.Client.RetryAttempts)
	}

	orch := discovery.NewOrchestrator(geocoder, source, discovery.Config{
		RadiusKm:   cfg.Client.RangeInKm,
		MaxResults: cfg.Client.NumOfResult,
		Location:   loc,
	})
	session := screen.NewSession(orch, textRenderer{}, "")
	defer session.Close()

	if err := session.FindNearby(ctx, flag.Arg(0), date); err != nil && !screen.IsSuperseded(err) {
		snap, _ := session.Snapshot(ctx)
		fmt.Println(snap.ErrorMessage)
		os.Exit(1)
	}

	snap, err := session.Snapshot(ctx)
	if err != nil {
		log.Fatalf("Failed to read results: %v", err)
	}
	fmt.Printf("%d events on %s\n", len(snap.Events), discovery.FormatDisplayDate(date, loc))
}
