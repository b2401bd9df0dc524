package notify

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/justHusniddin/Antikorbot/internal/localization"
	"github.com/justHusniddin/Antikorbot/internal/models"
)

// BuildPDF renders the complaint report as an A4 PDF. fontPath must point
// to a TTF with Cyrillic glyphs, the built-in core fonts cannot render the
// complaint texts.
func BuildPDF(loc *localization.Localizer, c *models.Complaint, fontPath string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddUTF8Font("report", "", fontPath)
	pdf.SetFont("report", "", 11)
	pdf.AddPage()

	pdf.SetFontSize(16)
	pdf.CellFormat(0, 10, fmt.Sprintf("Shikoyat #%d", c.ID), "", 1, "C", false, 0, "")
	pdf.Ln(4)
	pdf.SetFontSize(11)

	for _, line := range pdfLines(loc, c) {
		if line == "" {
			pdf.Ln(4)
			continue
		}
		pdf.MultiCell(0, 6, line, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
