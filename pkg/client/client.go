// Package client provides the HTTP transport for the SWAPI engine: a single
// GET against a base URL with JSON decoding and error classification.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/Sternrassler/starship-pilots/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Prometheus metrics for transport operations.
var (
	swapiRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "swapi_requests_total",
		Help: "Total SWAPI requests by endpoint and status",
	}, []string{"endpoint", "status"})

	swapiRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "swapi_request_duration_seconds",
		Help:    "SWAPI request duration in seconds by endpoint",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	swapiErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "swapi_errors_total",
		Help: "Total SWAPI transport errors by class",
	}, []string{"class"})
)

// DefaultBaseURL is the public SWAPI mirror.
const DefaultBaseURL = "https://swapi.dev/api"

// Client issues single GET requests against a SWAPI-shaped REST service.
type Client struct {
	httpClient *http.Client
	baseURL    string
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// BaseURL is the API root, e.g. "https://swapi.dev/api".
	// Absolute links returned by the API are expected to start with it.
	BaseURL string

	// UserAgent header sent with every request.
	UserAgent string

	// Timeout for a single request (ignored when HTTPClient is set).
	Timeout time.Duration

	// HTTPClient overrides the default http.Client.
	HTTPClient *http.Client
}

// DefaultConfig returns a default configuration for the given base URL.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:   baseURL,
		UserAgent: "starship-pilots/0.1.0",
		Timeout:   30 * time.Second,
	}
}

// New creates a new transport client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}

	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, fmt.Errorf("base url must be an absolute http(s) url (got %q)", cfg.BaseURL)
	}

	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		config:     cfg,
		logger:     logging.NewLogger("swapi-client"),
	}, nil
}

// BaseURL returns the normalized base URL (no trailing slash).
func (c *Client) BaseURL() string {
	return c.baseURL
}

// RelativePath strips the base URL prefix from path, so that absolute links
// handed out by the API and relative resource paths reach the same endpoint.
// Paths outside the base URL are returned unchanged, including siblings
// that merely share its text ("/api2/" under base "/api").
func (c *Client) RelativePath(path string) string {
	rest, ok := strings.CutPrefix(path, c.baseURL)
	if !ok {
		return path
	}
	if rest == "" || rest[0] == '/' || rest[0] == '?' {
		return rest
	}
	return path
}

// Get performs one GET request for path with optional query params and
// decodes the JSON body into out, which must be a non-nil pointer.
//
// Network failures and non-2xx statuses return *TransportError; undecodable
// bodies return *DeserializationError. Nothing is retried.
func (c *Client) Get(ctx context.Context, path string, params url.Values, out any) error {
	u, err := c.requestURL(path, params)
	if err != nil {
		return fmt.Errorf("build request url: %w", err)
	}
	endpoint := u.Path

	startTime := time.Now()
	defer func() {
		swapiRequestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Str("endpoint", endpoint).
		Str("query", u.RawQuery).
		Msg("Executing SWAPI request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("endpoint", endpoint).Msg("HTTP request failed")
		swapiErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		swapiRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()
		return &TransportError{
			Endpoint:   endpoint,
			ErrorClass: ErrorClassNetwork,
			Err:        err,
		}
	}
	defer resp.Body.Close()

	swapiRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errClass := classifyStatus(resp.StatusCode)
		swapiErrorsTotal.WithLabelValues(string(errClass)).Inc()
		_, _ = io.Copy(io.Discard, resp.Body)

		c.logger.Warn().
			Str("endpoint", endpoint).
			Int("status", resp.StatusCode).
			Str("error_class", string(errClass)).
			Msg("SWAPI request error")

		return &TransportError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			ErrorClass: errClass,
			Message:    resp.Status,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		swapiErrorsTotal.WithLabelValues(string(ErrorClassDecode)).Inc()
		c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("Failed to decode SWAPI response")
		return &DeserializationError{
			Endpoint: endpoint,
			Target:   targetName(out),
			Err:      err,
		}
	}

	return nil
}

// requestURL joins the base URL with path and merges params into the query.
// Params override keys already present in the path's query string.
func (c *Client) requestURL(path string, params url.Values) (*url.URL, error) {
	rel := c.RelativePath(path)

	raw := rel
	if !isAbsolute(rel) {
		if !strings.HasPrefix(rel, "/") {
			rel = "/" + rel
		}
		raw = c.baseURL + rel
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}

	if len(params) > 0 {
		query := u.Query()
		for key, values := range params {
			query[key] = append([]string(nil), values...)
		}
		u.RawQuery = query.Encode()
	}

	return u, nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

func isAbsolute(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

func targetName(out any) string {
	if out == nil {
		return "nil"
	}
	return reflect.TypeOf(out).String()
}
