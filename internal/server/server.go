// Package server exposes extraction and PDF export over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/hyperifyio/tagscrape/internal/scrape"
)

// DefaultMaxRequestBytes caps JSON request bodies.
const DefaultMaxRequestBytes int64 = 4 << 20

// Options configure the router.
type Options struct {
	Version        string
	RateLimitRPS   float64
	RateLimitBurst int
	StartTime      time.Time

	// MaxRequestBytes caps request bodies. Zero means DefaultMaxRequestBytes.
	MaxRequestBytes int64

	// Debug switches gin to debug mode.
	Debug bool
}

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → RequestID → Logger
//	API:     RateLimit → BodyLimit
//
// Health and tags stay outside the rate limit so probes always work.
//
// /extract fetches whatever URL the client posts, loopback and private
// addresses included. Bind the server to a trusted interface or put it
// behind a proxy that restricts callers.
func NewRouter(ex *scrape.Extractor, opts Options) *gin.Engine {
	if opts.StartTime.IsZero() {
		opts.StartTime = time.Now()
	}
	if opts.MaxRequestBytes <= 0 {
		opts.MaxRequestBytes = DefaultMaxRequestBytes
	}

	if opts.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(Logger())

	v1 := r.Group("/api/v1")
	v1.GET("/health", Health(opts.Version, opts.StartTime))
	v1.GET("/tags", Tags())

	limited := v1.Group("")
	limited.Use(RateLimit(opts.RateLimitRPS, opts.RateLimitBurst), BodyLimit(opts.MaxRequestBytes))
	limited.POST("/extract", Extract(ex))
	limited.POST("/report", Report())

	return r
}

// Serve runs srv until ctx is cancelled, then drains in-flight requests for
// up to five seconds.
func Serve(ctx context.Context, srv *http.Server) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("HTTP server forced shutdown")
			return err
		}
		log.Info().Msg("HTTP server drained gracefully")
		return nil
	})
	return g.Wait()
}
