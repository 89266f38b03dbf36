package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout bounds a whole request including redirects and body read.
	DefaultTimeout = 30 * time.Second
	// DefaultRedirectMaxHops caps redirect following.
	DefaultRedirectMaxHops = 10
	// DefaultMaxBodyBytes caps the response body size.
	DefaultMaxBodyBytes int64 = 32 << 20
)

// ErrUnsupportedScheme is returned for URLs that are not http or https.
var ErrUnsupportedScheme = errors.New("unsupported URL scheme")

// ErrBodyTooLarge is returned when a response exceeds MaxBodyBytes.
var ErrBodyTooLarge = errors.New("response body too large")

// StatusError reports a response outside the 2xx range.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("unexpected status: %s", e.Status)
	}
	return fmt.Sprintf("unexpected status: %d", e.StatusCode)
}

// Response is a fully read HTTP response body with the headers extraction needs.
type Response struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        []byte
}

// Client wraps http.Client with a bounded timeout and redirect policy.
// A single GET is issued per call; nothing is retried or cached.
// Client is safe for concurrent use.
type Client struct {
	HTTPClient *http.Client
	// UserAgent is sent only when non-empty.
	UserAgent string
	// Timeout bounds each request. Zero means DefaultTimeout.
	Timeout time.Duration
	// RedirectMaxHops caps redirect following. Zero means DefaultRedirectMaxHops.
	RedirectMaxHops int
	// MaxBodyBytes caps the body size. Zero means DefaultMaxBodyBytes.
	MaxBodyBytes int64
	// MaxConcurrent limits in-flight requests per client. Zero means unlimited.
	MaxConcurrent int
	// Limiter paces outbound requests when set.
	Limiter *rate.Limiter

	limiter     chan struct{}
	limiterOnce sync.Once
}

func (c *Client) getHTTPClient() *http.Client {
	if c.HTTPClient != nil {
		// Clone to attach our redirect policy without mutating caller's client
		base := *c.HTTPClient
		base.CheckRedirect = c.checkRedirectFunc()
		return &base
	}
	return &http.Client{CheckRedirect: c.checkRedirectFunc()}
}

// Get issues a single GET and returns the whole body.
func (c *Client) Get(ctx context.Context, rawURL string) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	if !isHTTPScheme(req.URL) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, req.URL.Scheme)
	}
	if req.URL.Host == "" {
		return nil, fmt.Errorf("new request: missing host in %q", rawURL)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}
	if err := c.acquire(ctx); err != nil {
		return nil, err
	}
	defer c.release()

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	req = req.WithContext(ctx)

	start := time.Now()
	resp, err := c.getHTTPClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	max := c.MaxBodyBytes
	if max <= 0 {
		max = DefaultMaxBodyBytes
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, max+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(b)) > max {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrBodyTooLarge, max)
	}

	log.Debug().
		Str("url", rawURL).
		Int("status", resp.StatusCode).
		Int("bytes", len(b)).
		Dur("took", time.Since(start)).
		Msg("fetched page")

	return &Response{
		URL:         resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        b,
	}, nil
}

func (c *Client) checkRedirectFunc() func(req *http.Request, via []*http.Request) error {
	max := c.RedirectMaxHops
	if max <= 0 {
		max = DefaultRedirectMaxHops
	}
	return func(req *http.Request, via []*http.Request) error {
		if len(via) >= max {
			return errors.New("too many redirects")
		}
		if !isHTTPScheme(req.URL) {
			return errors.New("redirect to unsupported scheme")
		}
		return nil
	}
}

func isHTTPScheme(u *url.URL) bool {
	if u == nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}

func (c *Client) acquire(ctx context.Context) error {
	if c.MaxConcurrent <= 0 {
		return nil
	}
	c.limiterOnce.Do(func() {
		c.limiter = make(chan struct{}, c.MaxConcurrent)
	})
	select {
	case c.limiter <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) release() {
	if c.MaxConcurrent <= 0 || c.limiter == nil {
		return
	}
	select {
	case <-c.limiter:
	default:
	}
}
