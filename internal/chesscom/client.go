// Package chesscom is a minimal client for the chess.com published-data API.
//
// It only knows how to GET a URL and return the raw body; interpreting the
// payload is left to the archive package so that the exact bytes can be
// cached verbatim.
package chesscom

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/discochess/insight/internal/stats"
)

const (
	// DefaultBaseURL is the root of chess.com's public API.
	DefaultBaseURL = "https://api.chess.com/pub"

	// DefaultUserAgent identifies this client. chess.com asks API consumers
	// to send a descriptive User-Agent and may block anonymous clients.
	DefaultUserAgent = "discochess-insight/1.0 (+https://github.com/discochess/insight)"

	// DefaultTimeout bounds a single request, including reading the body.
	DefaultTimeout = 30 * time.Second

	// DefaultRate and DefaultBurst keep the client well under chess.com's
	// limits for serial access.
	DefaultRate  = rate.Limit(2)
	DefaultBurst = 1

	// maxBodySize guards against unbounded responses. A busy month is a few MB.
	maxBodySize = 64 << 20
)

// RemoteError reports a non-2xx response from the API.
type RemoteError struct {
	Status int
	URL    string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("chesscom: unexpected status %d (%s) for %s", e.Status, http.StatusText(e.Status), e.URL)
}

// NotFound reports whether the API answered 404, which chess.com uses for
// unknown players.
func (e *RemoteError) NotFound() bool {
	return e.Status == http.StatusNotFound
}

// Getter fetches the raw body at a URL. *Client implements it; tests may
// substitute their own.
type Getter interface {
	Get(ctx context.Context, rawURL string) ([]byte, error)
}

// Client issues GET requests against the chess.com API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
	stats      stats.Collector
	logger     *zap.Logger
}

// Compile-time check that Client implements Getter.
var _ Getter = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

// WithTimeout sets the per-request timeout on the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(cl *Client) { cl.httpClient.Timeout = timeout }
}

// WithBaseURL overrides the API root (tests point this at httptest servers).
func WithBaseURL(base string) Option {
	return func(cl *Client) { cl.baseURL = strings.TrimSuffix(base, "/") }
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(cl *Client) { cl.userAgent = ua }
}

// WithRateLimit limits outgoing requests. A limit of rate.Inf disables limiting.
func WithRateLimit(r rate.Limit, burst int) Option {
	return func(cl *Client) { cl.limiter = rate.NewLimiter(r, burst) }
}

// WithStats sets the stats collector.
func WithStats(c stats.Collector) Option {
	return func(cl *Client) { cl.stats = c }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(cl *Client) { cl.logger = l }
}

// New creates a Client with sensible defaults.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				ResponseHeaderTimeout: DefaultTimeout,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		baseURL:   DefaultBaseURL,
		userAgent: DefaultUserAgent,
		limiter:   rate.NewLimiter(DefaultRate, DefaultBurst),
		stats:     stats.NewNoop(),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ArchivesURL returns the archive directory endpoint for username.
func (c *Client) ArchivesURL(username string) string {
	return c.baseURL + "/player/" + url.PathEscape(strings.ToLower(username)) + "/games/archives"
}

// Get fetches rawURL and returns its body. Non-2xx responses yield a
// *RemoteError carrying the status code.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	c.stats.IncCounter(stats.MetricHTTPRequests, 1)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.stats.IncCounter(stats.MetricHTTPErrors, 1)
		return nil, fmt.Errorf("requesting %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	elapsed := time.Since(start)
	c.stats.ObserveHistogram(stats.MetricHTTPLatency, elapsed.Seconds())
	c.logger.Debug("api request",
		zap.String("url", rawURL),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", elapsed),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.stats.IncCounter(stats.MetricHTTPErrors, 1)
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &RemoteError{Status: resp.StatusCode, URL: rawURL}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		c.stats.IncCounter(stats.MetricHTTPErrors, 1)
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if len(body) > maxBodySize {
		return nil, fmt.Errorf("response from %s exceeds %d bytes", rawURL, maxBodySize)
	}
	return body, nil
}
