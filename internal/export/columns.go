// Package export writes the per-region feature table: the primary CSV file
// and an optional XLSX workbook.
package export

import "github.com/couchcryptid/road-accident-hotspots/internal/domain"

// FeatureColumns returns the numeric feature columns in export order. The
// region identifier column precedes them in every export.
func FeatureColumns() []string {
	cols := make([]string, 0, 3*domain.NumCauses+3)
	for _, info := range domain.Causes {
		cols = append(cols, info.Cause.ContributionPctField())
	}
	for _, info := range domain.Causes {
		cols = append(cols, info.Cause.FatalityRateField(), info.Cause.InjuryRateField())
	}
	return append(cols, domain.FieldWeightedRisk, domain.FieldRecklessIndex, domain.FieldHotspotScore)
}

// FeatureRow returns a profile's values in FeatureColumns order.
func FeatureRow(p domain.Profile) []float64 {
	m := p.Metrics
	row := make([]float64, 0, 3*domain.NumCauses+3)
	for _, cm := range m.Causes {
		row = append(row, cm.ContributionPct)
	}
	for _, cm := range m.Causes {
		row = append(row, cm.FatalityRate, cm.InjuryRate)
	}
	return append(row, m.WeightedRisk, m.RecklessIndex, m.HotspotScore)
}
