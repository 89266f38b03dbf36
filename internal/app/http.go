package app

import (
	"net"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/hyperifyio/tagscrape/internal/fetch"
)

// newHTTPClient returns an HTTP client with bounded dial and handshake
// timeouts. Proxy settings from the environment are not honoured.
func newHTTPClient() *http.Client {
	transport := &http.Transport{
		Proxy: nil,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   16,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &http.Client{Transport: transport}
}

// NewFetchClient builds the fetch client described by cfg. Concurrency and
// pacing limits apply only when shared is true, as for the HTTP server.
func NewFetchClient(cfg Config, shared bool) *fetch.Client {
	c := &fetch.Client{
		HTTPClient:      newHTTPClient(),
		UserAgent:       cfg.UserAgent,
		Timeout:         cfg.Timeout,
		RedirectMaxHops: cfg.RedirectMaxHops,
		MaxBodyBytes:    cfg.MaxBodyBytes,
	}
	if shared {
		c.MaxConcurrent = cfg.FetchMaxConcurrent
		if cfg.FetchRPS > 0 {
			burst := int(cfg.FetchRPS)
			if burst < 1 {
				burst = 1
			}
			c.Limiter = rate.NewLimiter(rate.Limit(cfg.FetchRPS), burst)
		}
	}
	return c
}
