// Package report exports extracted strings as a paginated PDF table.
package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/rs/zerolog/log"
)

// DefaultTitle labels the single header cell.
const DefaultTitle = "Scraped Data"

// DefaultPageSize is US Letter; A4 and Legal are also accepted.
const DefaultPageSize = "Letter"

// Spec is a render job: the rows in display order and the file to write.
type Spec struct {
	Rows        []string
	Destination string
}

// Options tune the document. The zero value renders the default table.
type Options struct {
	Title    string
	PageSize string
	// Uncompressed leaves page content streams readable, which helps when
	// inspecting output.
	Uncompressed bool
	Style        *TableStyle
}

// ValidPageSize reports whether size is a page size Write accepts.
func ValidPageSize(size string) bool {
	switch strings.ToLower(strings.TrimSpace(size)) {
	case "", "letter", "a4", "legal":
		return true
	}
	return false
}

// Render writes spec.Rows to spec.Destination as a PDF table. Empty rows
// fail with ErrNoData and layout errors are returned as is, both before the
// filesystem is touched; only filesystem failures are reported as *IOError.
// The file is written to a temporary sibling and renamed into place, so the
// destination either holds a complete document or is left as it was.
func Render(ctx context.Context, spec Spec, opts Options) error {
	if len(spec.Rows) == 0 {
		return ErrNoData
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	dest := spec.Destination
	if strings.TrimSpace(dest) == "" {
		return &IOError{Op: "create", Path: dest, Err: os.ErrInvalid}
	}

	pdf, err := build(spec.Rows, opts)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".*.tmp")
	if err != nil {
		return &IOError{Op: "create", Path: dest, Err: err}
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if err := pdf.Output(tmp); err != nil {
		return &IOError{Op: "write", Path: dest, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		return &IOError{Op: "sync", Path: dest, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &IOError{Op: "close", Path: dest, Err: err}
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return &IOError{Op: "chmod", Path: dest, Err: err}
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		return &IOError{Op: "rename", Path: dest, Err: err}
	}
	committed = true

	log.Info().Str("out", dest).Int("rows", len(spec.Rows)).Msg("wrote pdf report")
	return nil
}

// Write renders rows as a PDF table to w. It does not check for empty rows;
// an empty slice yields a header-only table.
func Write(w io.Writer, rows []string, opts Options) error {
	pdf, err := build(rows, opts)
	if err != nil {
		return err
	}
	return pdf.Output(w)
}

func build(rows []string, opts Options) (*gofpdf.Fpdf, error) {
	pdf := newDocument(opts)
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("new document: %w", err)
	}
	style := DefaultStyle
	if opts.Style != nil {
		style = *opts.Style
	}
	title := opts.Title
	if strings.TrimSpace(title) == "" {
		title = DefaultTitle
	}

	pdf.AddPage()
	t := newTable(pdf, style, title, rows)
	t.header(title)
	for _, r := range rows {
		t.body(r)
	}
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	return pdf, nil
}

func newDocument(opts Options) *gofpdf.Fpdf {
	size := strings.TrimSpace(opts.PageSize)
	if size == "" {
		size = DefaultPageSize
	}
	pdf := gofpdf.New("P", "pt", size, "")
	// One inch margins all round.
	pdf.SetMargins(72, 72, 72)
	pdf.SetAutoPageBreak(true, 72)
	pdf.SetCompression(!opts.Uncompressed)
	return pdf
}
