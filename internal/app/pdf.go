package app

import (
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/hyperifyio/omnisearch/internal/search"
)

// writeResultPDF renders the aggregate result as a minimal PDF: query and
// answer up top, then one block per source with a clickable URL. This is
// intentionally simple and does no full text layout.
func writeResultPDF(res *search.AggregateResult, outPath string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 14)
	pdf.MultiCell(0, 8, tr("Search: "+res.Query), "", "L", false)
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 5, fmt.Sprintf("%d unique sources in %s", len(res.Sources), res.Elapsed.Round(time.Millisecond)), "", "L", false)
	pdf.Ln(3)

	if res.Answer != "" {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 7, "Answer", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 5, tr(res.Answer), "", "L", false)
		pdf.Ln(3)
	}

	for i, s := range res.Sources {
		title := s.Title
		if title == "" {
			title = s.URL
		}
		pdf.SetFont("Helvetica", "B", 11)
		pdf.MultiCell(0, 5, tr(fmt.Sprintf("%d. %s", i+1, title)), "", "L", false)
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 200)
		pdf.WriteLinkString(4, s.URL, s.URL)
		pdf.Ln(5)
		pdf.SetTextColor(0, 0, 0)
		if s.Content != "" {
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 4, tr(truncate(s.Content, 400)), "", "L", false)
		}
		pdf.Ln(2)
	}

	return pdf.OutputFileAndClose(outPath)
}
