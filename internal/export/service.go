package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/waste-estimator/internal/entity"
)

const (
	sheetWaste     = "Waste"
	sheetUnmatched = "Unmatched"
	sheetLineItems = "Line Items"
)

// Service renders estimate results as downloadable documents.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// ExportXLSX returns a workbook (as bytes) with the matched waste, the unmatched
// removal items and every extracted line item, one sheet each.
func (s *Service) ExportXLSX(summary entity.WasteSummary, items []entity.LineItem) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("export.xlsx.close_failed", "error", err)
		}
	}()

	// the default sheet becomes the first one
	if err := f.SetSheetName("Sheet1", sheetWaste); err != nil {
		return nil, err
	}
	for _, name := range []string{sheetUnmatched, sheetLineItems} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
	}
	f.SetActiveSheet(0)

	rows := [][]any{}
	for _, w := range summary.WasteItems {
		rows = append(rows, []any{w.Description, w.Quantity, w.Unit, w.MaterialType, w.WeightPerUnit, w.TotalWeight})
	}
	rows = append(rows,
		[]any{},
		[]any{"Total (lbs)", summary.TotalWeightLbs},
		[]any{"Total (tons)", summary.TotalWeightTons},
	)
	if err := writeSheet(f, sheetWaste,
		[]string{"Description", "Quantity", "Unit", "Material", "Lbs/Unit", "Total Lbs"}, rows); err != nil {
		return nil, err
	}

	rows = rows[:0]
	for _, u := range summary.UnmatchedItems {
		rows = append(rows, []any{u.Description, u.Quantity, u.Unit, u.EstimatedWeight})
	}
	if err := writeSheet(f, sheetUnmatched,
		[]string{"Description", "Quantity", "Unit", "Estimated Lbs"}, rows); err != nil {
		return nil, err
	}

	rows = rows[:0]
	for _, it := range items {
		var line any = ""
		if it.HasLineNumber() {
			line = *it.LineNumber
		}
		removal := "no"
		if it.IsRemoval {
			removal = "yes"
		}
		rows = append(rows, []any{line, it.Description, it.Quantity, it.Unit, removal})
	}
	if err := writeSheet(f, sheetLineItems,
		[]string{"Line #", "Description", "Quantity", "Unit", "Removal"}, rows); err != nil {
		return nil, err
	}

	// Widen a few columns
	_ = f.SetColWidth(sheetWaste, "A", "A", 60)
	_ = f.SetColWidth(sheetWaste, "D", "D", 24)
	_ = f.SetColWidth(sheetUnmatched, "A", "A", 60)
	_ = f.SetColWidth(sheetLineItems, "B", "B", 60)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"waste_rows", len(summary.WasteItems),
		"unmatched_rows", len(summary.UnmatchedItems),
		"line_items", len(items),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]any) error {
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	for r, values := range rows {
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
