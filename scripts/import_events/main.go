package main

import (
	"context"
	"log"
	"os"
	"strconv"

	"parenteye/internal/database"
	"parenteye/services/discovery"
	"parenteye/services/geocoding"

	"github.com/spf13/afero"
)

func main() {
	if len(os.Args) < 3 {
		log.Fatal("Usage: import_events <database_path> <events.json>")
	}
	dbPath, dataPath := os.Args[1], os.Args[2]

	evts, err := discovery.LoadDataset(afero.NewOsFs(), dataPath)
	if err != nil {
		log.Fatalf("Failed to load events: %v", err)
	}

	ctx := context.Background()

	// Optionally fill in coordinates from venue addresses before storing.
	if geocode, _ := strconv.ParseBool(os.Getenv("PARENTEYE_GEOCODE_MISSING")); geocode {
		g, err := geocoding.NewCached(geocoding.NewNominatim(geocoding.NominatimConfig{
			BaseURL: os.Getenv("PARENTEYE_GEOCODER_URL"),
		}), 0)
		if err != nil {
			log.Fatalf("Failed to create geocoder: %v", err)
		}
		n, err := discovery.ResolveMissingCoordinates(ctx, g, evts, 2)
		if err != nil {
			log.Printf("Some locations could not be resolved: %v", err)
		}
		log.Printf("Resolved coordinates for %d events", n)
	}

	db, err := database.NewDB(database.Config{DatabasePath: dbPath})
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Events.UpsertEvents(ctx, evts); err != nil {
		log.Fatalf("Failed to import events: %v", err)
	}

	total, err := db.Events.Count(ctx)
	if err != nil {
		log.Fatalf("Failed to count events: %v", err)
	}

	unplaced := 0
	for _, e := range evts {
		if _, ok := e.Coordinate(); !ok {
			unplaced++
		}
	}
	log.Printf("Import complete: %d events imported (%d without coordinates), %d in store", len(evts), unplaced, total)
}
