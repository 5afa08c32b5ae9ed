package observations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Fetcher retrieves hourly records for a station over an inclusive date
// range. Implementations must return records in the order the backend
// produced them; callers rely on that order being preserved.
type Fetcher interface {
	FetchRange(ctx context.Context, station, start, end string) ([]HourlyRecord, error)
}

// Directory lists the station codes available for selection.
type Directory interface {
	ListStations(ctx context.Context) ([]string, error)
}

var _ Fetcher = (*Client)(nil)
var _ Directory = (*Client)(nil)

// Client talks to the observations proxy API. Upstream weather services
// flap and rate-limit, so requests go through a circuit breaker and a
// client-side limiter instead of hammering a struggling backend.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	limiter *rate.Limiter
	log     *zap.SugaredLogger
}

func NewClient(baseURL string, timeout time.Duration, log *zap.SugaredLogger) *Client {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "observations-api",
			MaxRequests: 1,
			Timeout:     30 * time.Second,
		}),
		limiter: rate.NewLimiter(rate.Limit(5), 10),
		log:     log,
	}
}

// FetchRange requests hourly records for station between start and end
// (inclusive, ISO YYYY-MM-DD).
func (c *Client) FetchRange(ctx context.Context, station, start, end string) ([]HourlyRecord, error) {
	q := url.Values{}
	q.Set("station", station)
	q.Set("start", start)
	q.Set("end", end)
	var records []HourlyRecord
	if err := c.getJSON(ctx, "/api/observations?"+q.Encode(), &records); err != nil {
		c.log.Warnw("fetch range failed", "station", station, "start", start, "end", end, "error", err)
		return nil, err
	}
	c.log.Debugw("fetched range", "station", station, "start", start, "end", end, "records", len(records))
	return records, nil
}

// ListStations returns the station codes known to the backend.
func (c *Client) ListStations(ctx context.Context) ([]string, error) {
	var stations []string
	if err := c.getJSON(ctx, "/api/stations", &stations); err != nil {
		c.log.Warnw("list stations failed", "error", err)
		return nil, err
	}
	return stations, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	body, err := c.breaker.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return nil, err
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			// The proxy collapses upstream failures into {"error": "..."}.
			var payload struct {
				Error string `json:"error"`
			}
			if json.Unmarshal(b, &payload) == nil && payload.Error != "" {
				return nil, errors.New(payload.Error)
			}
			return nil, errors.New("unexpected status code: " + resp.Status)
		}
		return b, nil
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body.([]byte), out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
