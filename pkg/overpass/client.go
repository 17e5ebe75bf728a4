package overpass

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultEndpoint is the public Overpass interpreter.
const DefaultEndpoint = "https://overpass-api.de/api/interpreter"

// DefaultFilter selects the ways usually kept for a road network, with the
// nodes they reference. It is spliced into Query after the area clause.
const DefaultFilter = `(way(area)["highway"~"^(motorway|trunk|primary|secondary|tertiary|unclassified|residential|living_street|service)(_link)?$"]; >;);`

const httpTimeout = 5 * time.Minute

var (
	// ErrNetwork wraps transport failures.
	ErrNetwork = errors.New("overpass network error")
	// ErrStatus is returned for a non-2xx response.
	ErrStatus = errors.New("overpass unexpected status")
)

// retryableError marks a failure worth another attempt (transport error,
// 429 or 5xx from a busy server).
type retryableError struct{ err error }

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

// Client downloads raw OSM XML from an Overpass endpoint.
type Client struct {
	Endpoint string
	HTTP     *http.Client
	Attempts int           // total tries for retryable failures
	Delay    time.Duration // first backoff delay, doubled per retry
	Logger   *log.Logger
}

// NewClient returns a client for DefaultEndpoint.
func NewClient() *Client {
	return &Client{
		Endpoint: DefaultEndpoint,
		HTTP:     &http.Client{Timeout: httpTimeout},
		Attempts: 3,
		Delay:    2 * time.Second,
	}
}

// Query builds the Overpass QL request for a named area.
func Query(area, filter string) string {
	return fmt.Sprintf(`[out:xml]; area[name = "%s"]; %s out;`, area, filter)
}

// Download fetches the map data of area filtered by filter and copies the
// response body to w. Transport failures, 429 and 5xx responses are retried
// with exponential backoff before anything is written.
func (c *Client) Download(ctx context.Context, area, filter string, w io.Writer) error {
	if filter == "" {
		filter = DefaultFilter
	}
	u, err := url.Parse(c.endpoint())
	if err != nil {
		return fmt.Errorf("endpoint %q: %w", c.endpoint(), err)
	}
	q := u.Query()
	q.Set("data", Query(area, filter))
	u.RawQuery = q.Encode()

	var body io.ReadCloser
	err = c.retry(ctx, func() error {
		var err error
		body, err = c.get(ctx, u.String())
		return err
	})
	if err != nil {
		return err
	}
	defer body.Close()

	n, err := io.Copy(w, body)
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrNetwork, err)
	}
	c.logger().Info("downloaded map", "area", area, "bytes", n)
	return nil
}

func (c *Client) get(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/osm3s+xml, application/xml")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &retryableError{fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	if err := checkStatus(resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func checkStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusTooManyRequests || code >= 500:
		return &retryableError{fmt.Errorf("%w: %d", ErrStatus, code)}
	default:
		return fmt.Errorf("%w: %d", ErrStatus, code)
	}
}

func (c *Client) retry(ctx context.Context, fn func() error) error {
	attempts := max(c.Attempts, 1)
	delay := c.Delay
	var lastErr error

	for i := range attempts {
		if lastErr = fn(); lastErr == nil {
			return nil
		}
		if !errors.As(lastErr, new(*retryableError)) {
			return lastErr
		}
		if i < attempts-1 {
			c.logger().Warn("overpass request failed, retrying", "attempt", i+1, "delay", delay, "err", lastErr)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}

func (c *Client) endpoint() string {
	if c.Endpoint == "" {
		return DefaultEndpoint
	}
	return c.Endpoint
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP == nil {
		return http.DefaultClient
	}
	return c.HTTP
}

func (c *Client) logger() *log.Logger {
	if c.Logger == nil {
		return log.Default()
	}
	return c.Logger
}
