package discovery

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
	"parenteye/services/events"

	"github.com/avast/retry-go/v4"
)

// DefaultBackendURL is the hosted ParentEye backend.
const DefaultBackendURL = "https://parenteye-backend.parenteye.workers.dev"

// RemoteSource fetches events from a /getNearbyLatestEvents backend.
type RemoteSource struct {
	baseURL  string
	httpc    *http.Client
	attempts uint
}

// NewRemoteSource creates a source for baseURL. A nil client gets a 15s timeout.
func NewRemoteSource(baseURL string, httpc *http.Client, attempts uint) *RemoteSource {
	if baseURL == "" {
		baseURL = DefaultBackendURL
	}
	if httpc == nil {
		httpc = &http.Client{Timeout: 15 * time.Second}
	}
	if attempts == 0 {
		attempts = 3
	}
	return &RemoteSource{baseURL: strings.TrimRight(baseURL, "/"), httpc: httpc, attempts: attempts}
}

type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

// backendStatusError is a non-200 reply the client may retry.
type backendStatusError struct {
	code int
	body errorBody
}

func (e *backendStatusError) Error() string {
	msg := e.body.Error
	if msg == "" {
		msg = http.StatusText(e.code)
	}
	if e.body.Details != "" {
		return fmt.Sprintf("backend status %d: %s: %s", e.code, msg, e.body.Details)
	}
	return fmt.Sprintf("backend status %d: %s", e.code, msg)
}

func (s *RemoteSource) requestURL(p models.QueryParameters) string {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(p.Origin.Latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(p.Origin.Longitude, 'f', -1, 64))
	q.Set("rangeInKm", strconv.FormatFloat(p.RadiusKm, 'f', -1, 64))
	q.Set("numOfResult", strconv.Itoa(p.MaxResults))
	if p.ExactDate != "" {
		q.Set("eventDate", p.ExactDate)
	}
	return s.baseURL + "/getNearbyLatestEvents?" + q.Encode()
}

// FetchEvents implements EventSource. Transport failures and 502/503/504
// replies are retried. The backend's 400 maps to events.ErrInvalidParameter,
// its 500 to events.ErrQueryExecution, and everything else to ErrNetwork.
// A body that is not an event array yields ErrDecoding.
func (s *RemoteSource) FetchEvents(ctx context.Context, p models.QueryParameters) ([]models.Event, error) {
	reqURL := s.requestURL(p)

	var body []byte
	err := retry.Do(
		func() error {
			b, err := s.get(ctx, reqURL)
			if err != nil {
				return err
			}
			body = b
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(s.attempts),
		retry.Delay(200*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			var se *backendStatusError
			if errors.As(err, &se) {
				return se.code == http.StatusBadGateway || se.code == http.StatusServiceUnavailable ||
					se.code == http.StatusGatewayTimeout || se.code == http.StatusTooManyRequests
			}
			return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
		}),
		retry.OnRetry(func(attempt uint, err error) {
			log.Printf("[discovery] retry %d fetching events: %v", attempt+1, err)
		}),
	)
	if err != nil {
		return nil, classifyFetchError(err)
	}

	var evts []models.Event
	if err := json.Unmarshal(body, &evts); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecoding, err)
	}
	if evts == nil {
		evts = []models.Event{}
	}
	return evts, nil
}

func (s *RemoteSource) get(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		se := &backendStatusError{code: resp.StatusCode}
		_ = json.Unmarshal(b, &se.body)
		return nil, se
	}
	return b, nil
}

func classifyFetchError(err error) error {
	var se *backendStatusError
	if errors.As(err, &se) {
		switch se.code {
		case http.StatusBadRequest:
			return fmt.Errorf("%w: %s", events.ErrInvalidParameter, se.body.Error)
		case http.StatusInternalServerError:
			return &events.QueryExecutionError{Err: se}
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrNetwork, err)
}
