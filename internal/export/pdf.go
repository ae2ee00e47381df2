package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/joseph-ayodele/waste-estimator/internal/entity"
)

// ExportPDF renders a short report: totals first, then the matched and
// unmatched removal tables.
func (s *Service) ExportPDF(summary entity.WasteSummary) ([]byte, error) {
	start := time.Now()

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("") // core fonts are cp1252
	pdf.SetTitle("Waste estimate", true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Construction waste estimate", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Total weight: %.2f lbs (%.2f tons)", summary.TotalWeightLbs, summary.TotalWeightTons), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Matched items: %d   Unmatched items: %d", len(summary.WasteItems), len(summary.UnmatchedItems)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	header := func(title string, cols []string, widths []float64) {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 9)
		for i, c := range cols {
			pdf.CellFormat(widths[i], 6, c, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 9)
	}
	pdf.SetFillColor(230, 230, 230)

	widths := []float64{80, 18, 12, 36, 20, 24}
	header("Matched materials", []string{"Description", "Qty", "Unit", "Material", "Lbs/Unit", "Total Lbs"}, widths)
	for _, w := range summary.WasteItems {
		pdf.CellFormat(widths[0], 6, tr(truncate(w.Description, 48)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, fmt.Sprintf("%.2f", w.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 6, w.Unit, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 6, tr(truncate(w.MaterialType, 22)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[4], 6, fmt.Sprintf("%.2f", w.WeightPerUnit), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[5], 6, fmt.Sprintf("%.2f", w.TotalWeight), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	widths = []float64{110, 20, 16, 30}
	header("Unmatched removal items", []string{"Description", "Qty", "Unit", "Est. Lbs"}, widths)
	for _, u := range summary.UnmatchedItems {
		pdf.CellFormat(widths[0], 6, tr(truncate(u.Description, 66)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, fmt.Sprintf("%.2f", u.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 6, u.Unit, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 6, fmt.Sprintf("%.2f", u.EstimatedWeight), "1", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf write: %w", err)
	}

	s.logger.Info("export.pdf.ok",
		"waste_rows", len(summary.WasteItems),
		"unmatched_rows", len(summary.UnmatchedItems),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
