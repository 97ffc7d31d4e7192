package export

import (
	"time"

	"github.com/couchcryptid/road-accident-hotspots/internal/domain"
)

// Record is one region's feature row as published to external sinks.
type Record struct {
	Region         string              `json:"region"`
	Rank           int                 `json:"rank"`
	RiskCategory   domain.RiskCategory `json:"risk_category"`
	TotalAccidents float64             `json:"total_caused_accidents"`
	Features       map[string]float64  `json:"features"`
	GeneratedAt    time.Time           `json:"generated_at"`
}

// Records converts an analysis into one Record per region, in dataset order.
func Records(a *domain.Analysis) []Record {
	ranks := make(map[string]int, len(a.Ranking))
	for _, e := range a.Ranking {
		ranks[e.Region] = e.Rank
	}

	cols := FeatureColumns()
	out := make([]Record, len(a.Profiles))
	for i, p := range a.Profiles {
		features := make(map[string]float64, len(cols))
		for j, v := range FeatureRow(p) {
			features[cols[j]] = v
		}
		out[i] = Record{
			Region:         p.Name,
			Rank:           ranks[p.Name],
			RiskCategory:   p.Metrics.Category,
			TotalAccidents: p.Metrics.TotalAccidents,
			Features:       features,
			GeneratedAt:    a.GeneratedAt,
		}
	}
	return out
}
