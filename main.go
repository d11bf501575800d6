package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"parenteye/api"
	"parenteye/config"
	"parenteye/handlers"
	"parenteye/internal/database"
	"parenteye/services/events"

	"golang.org/x/time/rate"
	"gopkg.in/natefinch/lumberjack.v2"
)

// setupLogging tees the standard logger into a rotating file when one is configured.
func setupLogging(cfg config.LoggingConfig) *lumberjack.Logger {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	if cfg.File == "" {
		return nil
	}
	rotator := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}
	log.SetOutput(io.MultiWriter(os.Stdout, rotator))
	return rotator
}

func main() {
	exitCode := 0
	defer func() {
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	}()

	configPath := flag.String("config", os.Getenv("PARENTEYE_CONFIG"), "path to YAML config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("[main] %v", err)
	}
	if rotator := setupLogging(cfg.Logging); rotator != nil {
		defer rotator.Close()
	}

	db, err := database.NewDB(database.Config{DatabasePath: cfg.Database.Path})
	if err != nil {
		log.Printf("[main] open database: %v", err)
		exitCode = 1
		return
	}
	defer db.Close()

	if n, err := db.Events.Count(context.Background()); err == nil {
		log.Printf("[main] %d events in %s", n, cfg.Database.Path)
	}

	metrics := api.NewMetrics()
	var limiter *api.IPRateLimiter
	if n := cfg.Server.RateLimitPerMinute; n > 0 {
		limiter = api.NewIPRateLimiter(rate.Limit(float64(n)/60), n)
		defer limiter.Stop()
	}

	h := handlers.NewEventsHandler(events.NewService(db.Events), handlers.QueryDefaults{
		Latitude:       cfg.Query.DefaultLatitude,
		Longitude:      cfg.Query.DefaultLongitude,
		RangeInKm:      cfg.Query.DefaultRangeInKm,
		NumOfResult:    cfg.Query.DefaultNumOfResult,
		MaxNumOfResult: cfg.Query.MaxNumOfResult,
	}, metrics)

	server := &http.Server{
		Addr:         cfg.Server.Listen,
		Handler:      api.NewHandler(h, metrics, limiter),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	if err := serve(server, stop, 30*time.Second); err != nil {
		log.Printf("[main] %v", err)
		exitCode = 1
	}
}

// serve runs srv until it fails or stop fires, then shuts it down within grace.
func serve(srv *http.Server, stop <-chan os.Signal, grace time.Duration) error {
	serveErr := make(chan error, 1)
	go func() {
		log.Printf("[main] listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("server failed: %w", err)
	case <-stop:
	}
	log.Printf("[main] shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
