// Package render: PDF renderer.
// Lays out one page per article: heading, metadata block, summary and
// key-point bullets. Core fonts are cp1252, so text goes through gofpdf's
// Unicode translator.
package render

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/gaurav-prasanna/newsdigest/core"
)

// PDFRenderer renders the digest as a PDF document.
type PDFRenderer struct{}

// NewPDFRenderer creates a PDFRenderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// Render builds the PDF bytes.
func (r *PDFRenderer) Render(articles []core.Article) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if len(articles) == 0 {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "I", 11)
		pdf.MultiCell(0, 6, "No articles.", "", "L", false)
	}

	for i, a := range articles {
		pdf.AddPage()
		renderHeading(pdf, tr("Article "+strconv.Itoa(i+1)), 16)
		pdf.Ln(2)

		metaLine(pdf, tr, "URL", a.URL, a.URL != core.PastedTextURL)
		metaLine(pdf, tr, "Title", a.Title, false)
		metaLine(pdf, tr, "Authors", orNA(strings.Join(a.Authors, ", ")), false)
		date := ""
		if a.PublishDate != nil {
			date = a.PublishDate.Format(DateLayout)
		}
		metaLine(pdf, tr, "Published on", orNA(date), false)

		if a.Error != "" {
			pdf.SetTextColor(170, 30, 30)
			metaLine(pdf, tr, "Error", a.Error, false)
			pdf.SetTextColor(0, 0, 0)
			continue
		}
		metaLine(pdf, tr, "Sentiment", string(a.Sentiment), false)
		pdf.Ln(4)

		renderHeading(pdf, "Summary", 13)
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, tr(a.Summary), "", "L", false)
		pdf.Ln(4)

		renderHeading(pdf, "Key Points", 13)
		pdf.SetFont("Helvetica", "", 11)
		for _, kp := range a.KeyPoints {
			pdf.SetTextColor(41, 128, 185)
			pdf.CellFormat(6, 6, tr("•"), "", 0, "L", false, 0, "")
			pdf.SetTextColor(0, 0, 0)
			pdf.MultiCell(0, 6, tr(kp), "", "L", false)
		}

		pdf.Ln(8)
		pdf.SetDrawColor(189, 195, 199)
		y := pdf.GetY()
		left, _, right, _ := pdf.GetMargins()
		w, _ := pdf.GetPageSize()
		pdf.Line(left, y, w-right, y)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for PDF output.
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}

// renderHeading writes a bold, navy heading of the given size.
func renderHeading(pdf *gofpdf.Fpdf, text string, size float64) {
	pdf.SetFont("Helvetica", "B", size)
	pdf.SetTextColor(22, 61, 100)
	pdf.MultiCell(0, size*0.6, text, "", "L", false)
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(2)
}

// metaLine writes "Label: value". Links are clickable.
func metaLine(pdf *gofpdf.Fpdf, tr func(string) string, label, value string, link bool) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Write(6, label+": ")
	pdf.SetFont("Helvetica", "", 11)
	if link {
		pdf.SetTextColor(0, 0, 255)
		pdf.WriteLinkString(6, tr(value), value)
		pdf.SetTextColor(0, 0, 0)
	} else {
		pdf.Write(6, tr(value))
	}
	pdf.Ln(6)
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
