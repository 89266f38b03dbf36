package scrape

import (
	"errors"
	"fmt"
)

// Kind classifies an extraction failure.
type Kind int

const (
	KindNetwork Kind = iota + 1
	KindHTTP
	KindParse
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network error"
	case KindHTTP:
		return "http error"
	case KindParse:
		return "parse error"
	default:
		return "extraction error"
	}
}

var (
	// ErrExtraction matches every *Error regardless of kind.
	ErrExtraction = errors.New("extraction failed")
	// ErrNetwork matches failures to reach the host or complete the exchange.
	ErrNetwork = errors.New("network error")
	// ErrHTTP matches non-2xx or unusable responses.
	ErrHTTP = errors.New("http error")
	// ErrParse matches bodies the HTML parser could not read.
	ErrParse = errors.New("parse error")
	// ErrEmptyURL is returned before any I/O when the URL is blank.
	ErrEmptyURL = errors.New("url is required")
)

// Error is the single failure type returned by Extract. It carries the
// underlying cause and the kind of step that failed.
type Error struct {
	Kind Kind
	URL  string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.URL, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is match ErrExtraction and the sentinel of e's kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrExtraction:
		return true
	case ErrNetwork:
		return e.Kind == KindNetwork
	case ErrHTTP:
		return e.Kind == KindHTTP
	case ErrParse:
		return e.Kind == KindParse
	}
	return false
}
