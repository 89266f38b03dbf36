package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hyperifyio/tagscrape/internal/app"
	"github.com/hyperifyio/tagscrape/internal/scrape"
	"github.com/hyperifyio/tagscrape/internal/server"
)

// Dependencies holds everything a command needs to run.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Globals Globals
}

// Globals are flags accepted by every command.
type Globals struct {
	Config  string   `short:"c" help:"Path to a YAML or JSON config file" type:"path"`
	EnvFile []string `name:"env-file" default:".env,.env.local" help:"dotenv files loaded before reading the environment"`
	Verbose bool     `short:"v" help:"Verbose logging"`
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Globals

	Scrape  ScrapeCmd  `cmd:"" help:"Extract element text from a page and optionally export it as PDF"`
	Serve   ServeCmd   `cmd:"" help:"Serve the extract and report endpoints over HTTP. The extract endpoint fetches any URL it is given, private addresses included; expose it only to trusted clients"`
	Tags    TagsCmd    `cmd:"" help:"List the commonly used tag names"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// ScrapeCmd is the "scrape" subcommand.
type ScrapeCmd struct {
	URL       string        `arg:"" optional:"" help:"Page URL"`
	Tag       string        `short:"t" help:"Element name to extract, e.g. p, h1, h2, a, div, span (default p)"`
	PDF       string        `short:"o" name:"pdf" help:"Write the results to this PDF file" type:"path"`
	Title     string        `help:"Header text of the PDF table (default \"Scraped Data\")"`
	PageSize  string        `name:"page-size" help:"PDF page size: Letter, A4 or Legal"`
	JSON      bool          `help:"Print results as JSON"`
	Timeout   time.Duration `help:"Overall fetch timeout (default 30s)"`
	UserAgent string        `name:"user-agent" help:"User-Agent header to send"`
}

func (c *ScrapeCmd) Run(deps *Dependencies) error {
	cfg, err := deps.resolve(app.Config{
		URL:       c.URL,
		Tag:       c.Tag,
		PDFPath:   c.PDF,
		Title:     c.Title,
		PageSize:  c.PageSize,
		JSON:      c.JSON,
		Timeout:   c.Timeout,
		UserAgent: c.UserAgent,
	})
	if err != nil {
		return err
	}
	a, err := app.New(cfg, deps.Stdout)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	return a.Run(deps.Ctx)
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr      string  `short:"a" help:"Listen address (default :8080)"`
	RateLimit float64 `name:"rate-limit" help:"Requests per second allowed per client (default 2)"`
	Burst     int     `help:"Burst size for the per-client rate limit (default 5)"`
	FetchRPS  float64 `name:"fetch-rps" help:"Outbound fetches per second across all clients (0 = unlimited)"`
}

func (c *ServeCmd) Run(deps *Dependencies) error {
	cfg, err := deps.resolve(app.Config{
		Addr:           c.Addr,
		RateLimitRPS:   c.RateLimit,
		RateLimitBurst: c.Burst,
		FetchRPS:       c.FetchRPS,
	})
	if err != nil {
		return err
	}

	ex := scrape.New(app.NewFetchClient(cfg, true))
	router := server.NewRouter(ex, server.Options{
		Version:        app.BuildVersion,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		Debug:          cfg.Verbose,
	})
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return server.Serve(deps.Ctx, srv)
}

// TagsCmd is the "tags" subcommand.
type TagsCmd struct{}

func (c *TagsCmd) Run(deps *Dependencies) error {
	for _, t := range scrape.CommonTags {
		if _, err := fmt.Fprintln(deps.Stdout, t); err != nil {
			return err
		}
	}
	return nil
}

// VersionCmd is the "version" subcommand.
type VersionCmd struct{}

func (c *VersionCmd) Run(deps *Dependencies) error {
	_, err := fmt.Fprintf(deps.Stdout, "tagscrape %s (commit %s, built %s)\n", app.BuildVersion, app.BuildCommit, app.BuildDate)
	return err
}
