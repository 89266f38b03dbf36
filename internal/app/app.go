package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/tagscrape/internal/report"
	"github.com/hyperifyio/tagscrape/internal/scrape"
)

// ErrNoData is returned when an export is requested but the most recent
// extraction found nothing. The destination is not touched. It matches
// report.ErrNoData.
var ErrNoData = fmt.Errorf("scrape a page with matching elements first: %w", report.ErrNoData)

// App runs one extraction and optional export, printing results to Out.
type App struct {
	cfg     Config
	session *Session
	out     io.Writer
}

func New(cfg Config, out io.Writer) (*App, error) {
	ApplyDefaults(&cfg)
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	ex := scrape.New(NewFetchClient(cfg, false))
	return &App{cfg: cfg, session: NewSession(ex), out: out}, nil
}

// Session returns the session holding the most recent result.
func (a *App) Session() *Session { return a.session }

func (a *App) Run(ctx context.Context) error {
	if strings.TrimSpace(a.cfg.URL) == "" {
		return scrape.ErrEmptyURL
	}

	res, err := a.session.Scrape(ctx, scrape.Request{URL: a.cfg.URL, Tag: a.cfg.Tag})
	if err != nil {
		return err
	}

	if a.cfg.JSON {
		if err := writeJSON(a.out, res); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	} else {
		if err := writeText(a.out, res); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}

	if a.cfg.PDFPath == "" {
		return nil
	}
	if err := a.session.Export(ctx, a.cfg.PDFPath, a.reportOptions()); err != nil {
		return err
	}
	if !a.cfg.JSON {
		fmt.Fprintf(a.out, "PDF generated: %s\n", a.cfg.PDFPath)
	}
	return nil
}

func (a *App) reportOptions() report.Options {
	return report.Options{Title: a.cfg.Title, PageSize: a.cfg.PageSize}
}

// writeText prints the summary line and every item separated by a blank line.
func writeText(w io.Writer, res scrape.Result) error {
	if _, err := fmt.Fprintf(w, "Found %d %s elements.\n", res.Count(), res.Tag); err != nil {
		return err
	}
	for _, item := range res.Items {
		if _, err := fmt.Fprintf(w, "\n%s\n", item); err != nil {
			return err
		}
	}
	return nil
}

type jsonResult struct {
	URL   string   `json:"url"`
	Tag   string   `json:"tag"`
	Count int      `json:"count"`
	Items []string `json:"items"`
}

func writeJSON(w io.Writer, res scrape.Result) error {
	items := res.Items
	if items == nil {
		items = []string{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonResult{URL: res.URL, Tag: res.Tag, Count: res.Count(), Items: items})
}

// Session keeps the most recent successful extraction for a front end. A
// failed extraction leaves the previous result in place; a successful one
// replaces it wholesale. Export hands that result to the renderer
// explicitly.
type Session struct {
	extractor *scrape.Extractor
	last      *scrape.Result
}

func NewSession(ex *scrape.Extractor) *Session {
	return &Session{extractor: ex}
}

// Scrape extracts req and, on success, stores the result as the latest.
func (s *Session) Scrape(ctx context.Context, req scrape.Request) (scrape.Result, error) {
	res, err := s.extractor.Extract(ctx, req)
	if err != nil {
		log.Error().Err(err).Str("url", req.URL).Str("tag", req.Tag).Msg("extraction failed")
		return scrape.Result{}, err
	}
	s.last = &res
	return res, nil
}

// Last returns the latest result, if any.
func (s *Session) Last() (scrape.Result, bool) {
	if s.last == nil {
		return scrape.Result{}, false
	}
	return *s.last, true
}

// Clear drops the latest result.
func (s *Session) Clear() { s.last = nil }

// Export renders the latest result to dest. Without a non-empty result it
// returns ErrNoData and the renderer is never called.
func (s *Session) Export(ctx context.Context, dest string, opts report.Options) error {
	res, ok := s.Last()
	if !ok || res.Count() == 0 {
		return ErrNoData
	}
	rows := make([]string, len(res.Items))
	copy(rows, res.Items)
	return report.Render(ctx, report.Spec{Rows: rows, Destination: dest}, opts)
}
