package report

import (
	"errors"
	"fmt"
)

var (
	// ErrNoData is returned when there are no rows to render. Nothing is
	// written in that case.
	ErrNoData = errors.New("no data to render")
	// ErrIO matches every *IOError.
	ErrIO = errors.New("report i/o error")
)

// IOError reports a destination that could not be created or written.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func (e *IOError) Is(target error) bool { return target == ErrIO }
