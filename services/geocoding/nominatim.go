package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"parenteye/models"

	"github.com/avast/retry-go/v4"
	"golang.org/x/time/rate"
)

const defaultNominatimURL = "https://nominatim.openstreetmap.org"

// nominatimResult is the subset of a Nominatim search hit we use.
type nominatimResult struct {
	PlaceID     int64  `json:"place_id"`
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// NominatimConfig configures a Nominatim client.
type NominatimConfig struct {
	BaseURL           string
	UserAgent         string
	RequestsPerSecond float64 // public instance policy: at most 1
	Attempts          uint
	HTTPClient        *http.Client
}

// Nominatim geocodes through an OpenStreetMap Nominatim search endpoint.
type Nominatim struct {
	baseURL   string
	userAgent string
	httpc     *http.Client
	limiter   *rate.Limiter
	attempts  uint
}

// NewNominatim creates a client, applying defaults for unset fields.
func NewNominatim(cfg NominatimConfig) *Nominatim {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultNominatimURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "ParentEye/1.0"
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 1
	}
	if cfg.Attempts == 0 {
		cfg.Attempts = 3
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Nominatim{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		httpc:     cfg.HTTPClient,
		limiter:   rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		attempts:  cfg.Attempts,
	}
}

// statusError is a non-200 response from Nominatim.
type statusError struct {
	code int
}

func (e *statusError) Error() string { return fmt.Sprintf("nominatim returned status %d", e.code) }

func retryable(err error) bool {
	if !retry.IsRecoverable(err) {
		return false
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.code == http.StatusTooManyRequests || se.code >= 500
	}
	// Decode failures and context errors are not worth repeating.
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, ErrNoResults)
}

// Geocode implements Geocoder, returning the first search hit.
func (n *Nominatim) Geocode(ctx context.Context, query string) (models.Coordinate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return models.Coordinate{}, ErrEmptyQuery
	}

	var coord models.Coordinate
	err := retry.Do(
		func() error {
			if err := n.limiter.Wait(ctx); err != nil {
				return retry.Unrecoverable(err)
			}
			c, err := n.search(ctx, query)
			if err != nil {
				return err
			}
			coord = c
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(n.attempts),
		retry.Delay(250*time.Millisecond),
		retry.RetryIf(retryable),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(attempt uint, err error) {
			log.Printf("[geocoding] retry %d for %q: %v", attempt+1, query, err)
		}),
	)
	if err != nil {
		return models.Coordinate{}, err
	}
	return coord, nil
}

func (n *Nominatim) search(ctx context.Context, query string) (models.Coordinate, error) {
	apiURL := fmt.Sprintf("%s/search?q=%s&format=json&limit=1", n.baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return models.Coordinate{}, retry.Unrecoverable(err)
	}
	req.Header.Set("User-Agent", n.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := n.httpc.Do(req)
	if err != nil {
		return models.Coordinate{}, fmt.Errorf("nominatim request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return models.Coordinate{}, &statusError{code: resp.StatusCode}
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return models.Coordinate{}, retry.Unrecoverable(fmt.Errorf("decode nominatim response: %w", err))
	}

	for _, r := range results {
		lat, err := strconv.ParseFloat(r.Lat, 64)
		if err != nil {
			continue
		}
		lon, err := strconv.ParseFloat(r.Lon, 64)
		if err != nil {
			continue
		}
		return models.Coordinate{Latitude: lat, Longitude: lon}, nil
	}
	return models.Coordinate{}, retry.Unrecoverable(fmt.Errorf("%w for %q", ErrNoResults, query))
}
