package export

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/couchcryptid/road-accident-hotspots/internal/domain"
)

const (
	SheetFeatures = "Features"
	SheetRanking  = "Ranking"
)

// Workbook writes the feature table and the ranking to an XLSX file.
type Workbook struct {
	path   string
	logger *slog.Logger
}

// NewWorkbook creates a Workbook writer.
func NewWorkbook(path string, logger *slog.Logger) *Workbook {
	return &Workbook{path: path, logger: logger}
}

func (w *Workbook) Name() string { return "xlsx" }

func (w *Workbook) Load(_ context.Context, a *domain.Analysis) (int, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetFeatures); err != nil {
		return 0, fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeFeatures(f, a.Profiles); err != nil {
		return 0, err
	}
	if _, err := f.NewSheet(SheetRanking); err != nil {
		return 0, fmt.Errorf("add sheet: %w", err)
	}
	if err := writeRanking(f, a.Ranking); err != nil {
		return 0, err
	}

	if err := f.SaveAs(w.path); err != nil {
		return 0, fmt.Errorf("save %s: %w", w.path, err)
	}
	w.logger.Info("workbook exported", "path", w.path, "rows", len(a.Profiles))
	return len(a.Profiles), nil
}

func writeFeatures(f *excelize.File, profiles []domain.Profile) error {
	header := []interface{}{domain.FieldRegion}
	for _, col := range FeatureColumns() {
		header = append(header, col)
	}
	if err := f.SetSheetRow(SheetFeatures, "A1", &header); err != nil {
		return fmt.Errorf("features header: %w", err)
	}

	for i, p := range profiles {
		row := []interface{}{p.Name}
		for _, v := range FeatureRow(p) {
			row = append(row, v)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetFeatures, cell, &row); err != nil {
			return fmt.Errorf("features row %s: %w", p.Name, err)
		}
	}

	last, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	return f.SetColWidth(SheetFeatures, "A", last, 22)
}

func writeRanking(f *excelize.File, ranking []domain.RankEntry) error {
	header := []interface{}{"rank", domain.FieldRegion, domain.FieldHotspotScore, domain.FieldRiskCategory, domain.FieldTotalAccidents}
	if err := f.SetSheetRow(SheetRanking, "A1", &header); err != nil {
		return fmt.Errorf("ranking header: %w", err)
	}
	for i, e := range ranking {
		row := []interface{}{e.Rank, e.Region, e.HotspotScore, string(e.Category), e.TotalAccidents}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetRanking, cell, &row); err != nil {
			return fmt.Errorf("ranking row %s: %w", e.Region, err)
		}
	}
	return f.SetColWidth(SheetRanking, "A", "E", 22)
}
