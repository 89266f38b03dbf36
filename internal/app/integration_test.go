package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyperifyio/tagscrape/internal/report"
	"github.com/hyperifyio/tagscrape/internal/scrape"
)

func newPage(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// TestIntegration_ScrapeAndExport runs the full flow: fetch, extract, print,
// and export the same result set to a PDF.
func TestIntegration_ScrapeAndExport(t *testing.T) {
	t.Parallel()

	srv := newPage(t, "<html><body><p>Hello</p><p>  </p><p>World</p></body></html>")
	pdfPath := filepath.Join(t.TempDir(), "out.pdf")

	var out bytes.Buffer
	a, err := New(Config{URL: srv.URL, Tag: "p", PDFPath: pdfPath}, &out)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	want := "Found 2 p elements.\n\nHello\n\nWorld\nPDF generated: " + pdfPath + "\n"
	if out.String() != want {
		t.Fatalf("unexpected output:\n%q\nwant:\n%q", out.String(), want)
	}
	info, err := os.Stat(pdfPath)
	if err != nil {
		t.Fatalf("stat pdf: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("expected non-empty pdf")
	}
}

func TestIntegration_JSONOutput(t *testing.T) {
	t.Parallel()

	srv := newPage(t, "<h2>A</h2><h2>B</h2><h2>A</h2>")

	var out bytes.Buffer
	a, err := New(Config{URL: srv.URL, Tag: "h2", JSON: true}, &out)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	var got jsonResult
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out.String())
	}
	if got.Count != 3 || strings.Join(got.Items, ",") != "A,B,A" || got.Tag != "h2" {
		t.Fatalf("unexpected json result: %+v", got)
	}
}

func TestIntegration_NoMatchesThenExportFails(t *testing.T) {
	t.Parallel()

	srv := newPage(t, "<html><body><p>no headings here</p></body></html>")
	pdfPath := filepath.Join(t.TempDir(), "out.pdf")

	var out bytes.Buffer
	a, err := New(Config{URL: srv.URL, Tag: "h1", PDFPath: pdfPath}, &out)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	err = a.Run(context.Background())
	if !errors.Is(err, report.ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
	if !strings.HasPrefix(out.String(), "Found 0 h1 elements.") {
		t.Fatalf("unexpected output: %q", out.String())
	}
	if _, err := os.Stat(pdfPath); !os.IsNotExist(err) {
		t.Fatalf("pdf should not exist, stat err=%v", err)
	}
}

func TestRun_RequiresURL(t *testing.T) {
	a, err := New(Config{}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	if err := a.Run(context.Background()); !errors.Is(err, scrape.ErrEmptyURL) {
		t.Fatalf("expected ErrEmptyURL, got %v", err)
	}
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	if _, err := New(Config{PageSize: "napkin"}, &bytes.Buffer{}); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestSession_FailureKeepsPreviousResult(t *testing.T) {
	t.Parallel()

	srv := newPage(t, "<span>kept</span>")
	s := NewSession(scrape.New(NewFetchClient(Config{}, false)))

	if _, err := s.Scrape(context.Background(), scrape.Request{URL: srv.URL, Tag: "span"}); err != nil {
		t.Fatalf("scrape: %v", err)
	}
	_, err := s.Scrape(context.Background(), scrape.Request{URL: "http://nonexistent.invalid", Tag: "span"})
	if !errors.Is(err, scrape.ErrNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
	last, ok := s.Last()
	if !ok || len(last.Items) != 1 || last.Items[0] != "kept" {
		t.Fatalf("previous result was not preserved: %+v ok=%v", last, ok)
	}
}

func TestSession_SuccessReplacesResult(t *testing.T) {
	t.Parallel()

	first := newPage(t, "<a>one</a><a>two</a>")
	second := newPage(t, "<p>nothing</p>")
	s := NewSession(scrape.New(NewFetchClient(Config{}, false)))

	if _, err := s.Scrape(context.Background(), scrape.Request{URL: first.URL, Tag: "a"}); err != nil {
		t.Fatalf("scrape: %v", err)
	}
	if _, err := s.Scrape(context.Background(), scrape.Request{URL: second.URL, Tag: "a"}); err != nil {
		t.Fatalf("scrape: %v", err)
	}
	last, ok := s.Last()
	if !ok || last.Count() != 0 || last.URL != second.URL {
		t.Fatalf("expected empty replacement result, got %+v", last)
	}

	dest := filepath.Join(t.TempDir(), "out.pdf")
	if err := s.Export(context.Background(), dest, report.Options{}); !errors.Is(err, report.ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
	s.Clear()
	if _, ok := s.Last(); ok {
		t.Fatalf("expected cleared session")
	}
}

func TestSession_ExportWithoutScrape(t *testing.T) {
	s := NewSession(scrape.New(NewFetchClient(Config{}, false)))
	if err := s.Export(context.Background(), filepath.Join(t.TempDir(), "x.pdf"), report.Options{}); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}
