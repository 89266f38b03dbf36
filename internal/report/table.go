package report

import (
	"math"

	"github.com/jung-kurt/gofpdf"
)

// RGB is a fill, text or border colour.
type RGB struct{ R, G, B int }

var (
	grey       = RGB{128, 128, 128}
	whitesmoke = RGB{245, 245, 245}
	beige      = RGB{245, 245, 220}
	black      = RGB{0, 0, 0}
)

// CellStyle describes how one class of table cell is drawn.
type CellStyle struct {
	Font          string
	FontStyle     string
	FontSize      float64
	Fill          RGB
	Text          RGB
	TopPadding    float64
	BottomPadding float64
}

// TableStyle is the fixed look of the exported table. Units are points.
type TableStyle struct {
	Header      CellStyle
	Body        CellStyle
	Border      RGB
	BorderWidth float64
	// SidePadding is the left/right inset of text inside a cell.
	SidePadding float64
	// Leading is the line height as a multiple of the font size.
	Leading float64
}

// DefaultStyle is a grey header with light text over beige body rows, all
// cells centred and outlined with a 1pt black grid.
var DefaultStyle = TableStyle{
	Header: CellStyle{
		Font: "Helvetica", FontStyle: "B", FontSize: 14,
		Fill: grey, Text: whitesmoke,
		TopPadding: 3, BottomPadding: 12,
	},
	Body: CellStyle{
		Font: "Helvetica", FontStyle: "", FontSize: 12,
		Fill: beige, Text: black,
		TopPadding: 6, BottomPadding: 6,
	},
	Border:      black,
	BorderWidth: 1,
	SidePadding: 6,
	Leading:     1.2,
}

// table lays a single centred column out on a gofpdf document. Rows are
// written with MultiCell so gofpdf's automatic page break flows the table
// across pages; no page breaks are computed here.
type table struct {
	pdf   *gofpdf.Fpdf
	style TableStyle
	tr    func(string) string
	width float64
	x     float64
}

func newTable(pdf *gofpdf.Fpdf, style TableStyle, title string, rows []string) *table {
	t := &table{pdf: pdf, style: style, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	avail := pageW - left - right

	widest := t.textWidth(style.Header, title)
	for _, r := range rows {
		widest = math.Max(widest, t.textWidth(style.Body, r))
	}
	t.width = math.Min(widest+2*style.SidePadding, avail)
	t.x = left + (avail-t.width)/2
	return t
}

func (t *table) textWidth(cs CellStyle, s string) float64 {
	t.pdf.SetFont(cs.Font, cs.FontStyle, cs.FontSize)
	return t.pdf.GetStringWidth(t.tr(s))
}

func (t *table) header(title string) { t.row(t.style.Header, title) }

func (t *table) body(s string) { t.row(t.style.Body, s) }

func (t *table) row(cs CellStyle, text string) {
	pdf := t.pdf
	pdf.SetFont(cs.Font, cs.FontStyle, cs.FontSize)
	pdf.SetFillColor(cs.Fill.R, cs.Fill.G, cs.Fill.B)
	pdf.SetTextColor(cs.Text.R, cs.Text.G, cs.Text.B)
	pdf.SetDrawColor(t.style.Border.R, t.style.Border.G, t.style.Border.B)
	pdf.SetLineWidth(t.style.BorderWidth)
	pdf.SetCellMargin(t.style.SidePadding)

	pdf.SetX(t.x)
	if cs.TopPadding > 0 {
		pdf.CellFormat(t.width, cs.TopPadding, "", "LTR", 2, "C", true, 0, "")
	}
	pdf.MultiCell(t.width, cs.FontSize*t.style.Leading, t.tr(text), "LR", "C", true)
	pdf.SetX(t.x)
	if cs.BottomPadding > 0 {
		pdf.CellFormat(t.width, cs.BottomPadding, "", "LBR", 2, "C", true, 0, "")
	}
	pdf.SetX(t.x)
}
