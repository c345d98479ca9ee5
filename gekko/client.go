// Package gekko is a client for the REST API of a Gekko trading engine:
// dataset scans, candle pulls and backtests. Request and response bodies
// follow the engine's wire format, timestamps on the wire are epoch
// seconds.
package gekko

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
)

const (
	// DefaultBaseURL is where a locally running engine listens.
	DefaultBaseURL = "http://localhost:3000"

	// DefaultTimeout bounds a single engine call. Backtests over large
	// dateranges can take a while.
	DefaultTimeout = 30 * time.Second
)

// Client talks to one Gekko engine instance.
type Client struct {
	baseURL string
	apiURL  string
	http    *http.Client
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.http = httpClient
	}
}

// WithTimeout sets the per-call timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = timeout
	}
}

// WithLogger sets the logger for engine call diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a client for the engine at baseURL. An empty baseURL
// selects DefaultBaseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	c := &Client{
		baseURL: baseURL,
		apiURL:  baseURL + "/api/",
		http:    &http.Client{Timeout: DefaultTimeout},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the engine base URL the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// UpstreamError is a non-success reply from the engine.
type UpstreamError struct {
	Endpoint string
	Status   int
	Body     string
}

func (e *UpstreamError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("engine endpoint %s returned status %d: %s", e.Endpoint, e.Status, body)
}

// Post sends a JSON body to an engine API endpoint and decodes the reply
// into out. A nil body posts an empty object, a nil out discards the
// reply.
func (c *Client) Post(ctx context.Context, endpoint string, body, out any) error {
	if body == nil {
		body = struct{}{}
	}
	payload, err := sonic.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build %s request: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, endpoint, out)
}

// Get fetches an engine API endpoint and decodes the reply into out.
func (c *Client) Get(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("build %s request: %w", endpoint, err)
	}

	return c.do(req, endpoint, out)
}

func (c *Client) do(req *http.Request, endpoint string, out any) error {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call engine endpoint %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", endpoint, err)
	}

	c.logger.Debug("engine call",
		slog.String("endpoint", endpoint),
		slog.Int("status", resp.StatusCode),
		slog.Duration("latency", time.Since(start)),
		slog.Int("bytes", len(data)),
	)

	if resp.StatusCode/100 != 2 {
		return &UpstreamError{Endpoint: endpoint, Status: resp.StatusCode, Body: string(data)}
	}

	if out == nil {
		return nil
	}
	if err := sonic.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

// UnixTime decodes the engine's epoch-second timestamps.
type UnixTime struct {
	time.Time
}

// UnmarshalJSON reads an epoch-second number.
func (t *UnixTime) UnmarshalJSON(data []byte) error {
	var seconds float64
	if err := sonic.Unmarshal(data, &seconds); err != nil {
		return fmt.Errorf("unix timestamp: %w", err)
	}
	t.Time = time.Unix(int64(seconds), 0).UTC()
	return nil
}

// MarshalJSON writes an epoch-second number.
func (t UnixTime) MarshalJSON() ([]byte, error) {
	return sonic.Marshal(t.Unix())
}

// DateRange spans candle data between two instants. On the wire it is a
// pair of ISO 8601 timestamps without zone, the form the engine expects
// in requests.
type DateRange struct {
	From time.Time
	To   time.Time
}

const isoLayout = "2006-01-02T15:04:05"

type dateRangeWire struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// MarshalJSON writes the range in the engine's request format.
func (d DateRange) MarshalJSON() ([]byte, error) {
	return sonic.Marshal(dateRangeWire{
		From: d.From.UTC().Format(isoLayout),
		To:   d.To.UTC().Format(isoLayout),
	})
}

// UnmarshalJSON reads a range in the engine's request format.
func (d *DateRange) UnmarshalJSON(data []byte) error {
	var wire dateRangeWire
	if err := sonic.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("daterange: %w", err)
	}
	from, err := time.Parse(isoLayout, wire.From)
	if err != nil {
		return fmt.Errorf("daterange from: %w", err)
	}
	to, err := time.Parse(isoLayout, wire.To)
	if err != nil {
		return fmt.Errorf("daterange to: %w", err)
	}
	d.From, d.To = from.UTC(), to.UTC()
	return nil
}
