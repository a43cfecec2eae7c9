// internal/adapters/osm/client.go
package osm

import (
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"trip_planner/internal/adapters/observability"
)

// Options configures both OpenStreetMap services.
type Options struct {
	NominatimBase string
	OverpassBase  string
	UserAgent     string
	RPS           float64 // per service
	RadiusMeters  int
	Limit         int
}

// Client talks to Nominatim (geocoding, attractions by name) and Overpass
// (restaurants and stays around a point).
type Client struct {
	nominatim string
	overpass  string
	ua        string
	hc        *http.Client
	radius    int
	limit     int
	limiters  map[string]*rate.Limiter
}

func New(o Options) (*Client, error) {
	if o.UserAgent == "" {
		return nil, fmt.Errorf("user agent is required by the OSM usage policy")
	}
	if o.RPS <= 0 {
		o.RPS = 1
	}
	if o.RadiusMeters <= 0 {
		o.RadiusMeters = 5000
	}
	if o.Limit <= 0 {
		o.Limit = 10
	}
	burst := int(o.RPS)
	if burst < 1 {
		burst = 1
	}
	return &Client{
		nominatim: strings.TrimRight(o.NominatimBase, "/"),
		overpass:  strings.TrimRight(o.OverpassBase, "/"),
		ua:        o.UserAgent,
		hc:        &http.Client{Timeout: 30 * time.Second},
		radius:    o.RadiusMeters,
		limit:     o.Limit,
		limiters: map[string]*rate.Limiter{
			serviceNominatim: rate.NewLimiter(rate.Limit(o.RPS), burst),
			serviceOverpass:  rate.NewLimiter(rate.Limit(o.RPS), burst),
		},
	}, nil
}

const (
	serviceNominatim = "nominatim"
	serviceOverpass  = "overpass"
	maxAttempts      = 3
)

var (
	ErrBadStatus   = errors.New("osm: unexpected status")
	ErrRateLimited = errors.New("osm: rate limited")
)

// call is one logical request; body is re-created per attempt.
type call struct {
	service  string
	endpoint string
	method   string
	url      string
	form     url.Values
}

// do performs the call with client-side rate limiting and decodes JSON into
// out. 429 and transient 5xx are retried, honoring Retry-After.
func (c *Client) do(ctx context.Context, cl call, out any) error {
	if err := c.limiters[cl.service].Wait(ctx); err != nil {
		return err
	}

	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		var body io.Reader
		if cl.form != nil {
			body = strings.NewReader(cl.form.Encode())
		}
		req, err := http.NewRequestWithContext(ctx, cl.method, cl.url, body)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.ua)
		if cl.form != nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal(cl.service, cl.endpoint, 0, time.Since(start))
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if i < maxAttempts-1 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			return lastErr
		}
		observability.ObserveExternal(cl.service, cl.endpoint, resp.StatusCode, time.Since(start))

		switch resp.StatusCode {
		case http.StatusOK:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			if err != nil {
				return fmt.Errorf("%s %s: decode: %w", cl.service, cl.endpoint, err)
			}
			return nil

		case http.StatusTooManyRequests, http.StatusBadGateway,
			http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("%w: %s %s returned %d", ErrRateLimited, cl.service, cl.endpoint, resp.StatusCode)
			if i < maxAttempts-1 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
			resp.Body.Close()
			return fmt.Errorf("%w %d from %s %s: %s", ErrBadStatus, resp.StatusCode, cl.service, cl.endpoint, strings.TrimSpace(string(b)))
		}
	}
	return lastErr
}

// sleepCtx waits for d or returns false early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After (seconds or HTTP-date). 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := strings.TrimSpace(resp.Header.Get("Retry-After"))
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(h); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff: 250ms, 500ms, ... plus up to 50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 250 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	return base + time.Duration(0.5*float64(b[0])/255.0*float64(base))
}

func coord(f float64) string { return strconv.FormatFloat(f, 'f', 6, 64) }
