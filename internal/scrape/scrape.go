// Package scrape retrieves a single page and returns the text of every
// element with a given tag name.
package scrape

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/tagscrape/internal/extract"
	"github.com/hyperifyio/tagscrape/internal/fetch"
)

// Request names the page to fetch and the element name to collect.
type Request struct {
	URL string
	Tag string
}

// Result is the ordered list of non-empty element texts from one extraction.
// It is owned by the caller; the Extractor keeps no reference to it.
type Result struct {
	URL   string
	Tag   string
	Items []string
}

// Count returns the number of extracted items.
func (r Result) Count() int { return len(r.Items) }

// Getter retrieves a page body. *fetch.Client implements it.
type Getter interface {
	Get(ctx context.Context, url string) (*fetch.Response, error)
}

// Extractor ties retrieval and tag extraction together. The zero value uses a
// default fetch.Client and extract.TagExtractor. An Extractor holds no
// per-request state and is safe for concurrent use when its Getter is.
type Extractor struct {
	Getter    Getter
	Extractor extract.Extractor
}

// New returns an Extractor that fetches with client.
func New(client *fetch.Client) *Extractor {
	return &Extractor{Getter: client, Extractor: extract.TagExtractor{}}
}

// Extract fetches req.URL once and returns the trimmed, non-empty text of every
// element named req.Tag in document order. A page without matches yields an
// empty Result, not an error. Failures are returned as *Error.
func (e *Extractor) Extract(ctx context.Context, req Request) (Result, error) {
	url := strings.TrimSpace(req.URL)
	if url == "" {
		return Result{}, ErrEmptyURL
	}
	tag := strings.TrimSpace(req.Tag)
	if tag == "" {
		tag = DefaultTag
	}

	getter := e.Getter
	if getter == nil {
		getter = &fetch.Client{}
	}
	ex := e.Extractor
	if ex == nil {
		ex = extract.TagExtractor{}
	}

	start := time.Now()
	resp, err := getter.Get(ctx, url)
	if err != nil {
		return Result{}, &Error{Kind: classify(err), URL: url, Err: err}
	}
	items, err := ex.Extract(resp.Body, resp.ContentType, tag)
	if err != nil {
		return Result{}, &Error{Kind: KindParse, URL: url, Err: err}
	}

	log.Info().
		Str("url", url).
		Str("tag", tag).
		Int("count", len(items)).
		Dur("took", time.Since(start)).
		Msg("extraction completed")

	return Result{URL: url, Tag: tag, Items: items}, nil
}

// Extract runs a single extraction with a default Extractor.
func Extract(ctx context.Context, req Request) (Result, error) {
	return (&Extractor{}).Extract(ctx, req)
}

func classify(err error) Kind {
	var se *fetch.StatusError
	if errors.As(err, &se) || errors.Is(err, fetch.ErrBodyTooLarge) {
		return KindHTTP
	}
	return KindNetwork
}
