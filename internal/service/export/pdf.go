package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfMargin    = 10.0
	pdfRowHeight = 6.0
)

// document describes the heading printed above the tables.
type document struct {
	Title string
	Meta  [][2]string
}

// renderPDF prints the tables on landscape A4 pages, repeating the header
// row after every page break.
func renderPDF(doc document, tables []table) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, tr(doc.Title))
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)
	for _, m := range doc.Meta {
		pdf.CellFormat(40, 6, tr(m[0]), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, tr(": "+m[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	for i, t := range tables {
		if i > 0 {
			pdf.AddPage()
		}
		writePDFTable(pdf, tr, t)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writePDFTable(pdf *gofpdf.Fpdf, tr func(string) string, t table) {
	pageWidth, pageHeight := pdf.GetPageSize()
	widths := scaleWidths(t, pageWidth-2*pdfMargin)

	fontSize := 8.0
	if len(t.Header) > 10 {
		fontSize = 6.0
	}

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, tr(t.Name))
	pdf.Ln(10)

	header := func() {
		pdf.SetFont("Arial", "B", fontSize)
		pdf.SetFillColor(0x36, 0x60, 0x92)
		pdf.SetTextColor(255, 255, 255)
		for i, h := range t.Header {
			pdf.CellFormat(widths[i], pdfRowHeight, fit(pdf, tr(h), widths[i]), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", fontSize)
		pdf.SetTextColor(0, 0, 0)
	}
	header()

	for _, row := range t.Rows {
		if pdf.GetY()+pdfRowHeight > pageHeight-pdfMargin {
			pdf.AddPage()
			header()
		}
		for i, v := range row {
			if i >= len(widths) {
				break
			}
			pdf.CellFormat(widths[i], pdfRowHeight, fit(pdf, tr(v), widths[i]), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

// scaleWidths stretches the table's column widths to the printable width.
func scaleWidths(t table, available float64) []float64 {
	widths := make([]float64, len(t.Header))
	total := 0.0
	for i := range widths {
		w := 10.0
		if i < len(t.Widths) {
			w = t.Widths[i]
		}
		widths[i] = w
		total += w
	}
	for i := range widths {
		widths[i] = widths[i] / total * available
	}
	return widths
}

// fit truncates text so it stays inside a cell of the given width.
func fit(pdf *gofpdf.Fpdf, s string, width float64) string {
	limit := width - 2*pdf.GetCellMargin()
	if pdf.GetStringWidth(s) <= limit {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"..") > limit {
		s = s[:len(s)-1]
	}
	return s + ".."
}
