package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/road-accident-hotspots/internal/domain"
)

// HotspotTransformer implements Transformer with the domain derivation.
type HotspotTransformer struct {
	logger *slog.Logger
}

// NewTransformer creates a HotspotTransformer.
func NewTransformer(logger *slog.Logger) *HotspotTransformer {
	return &HotspotTransformer{logger: logger}
}

func (t *HotspotTransformer) Transform(_ context.Context, regions []domain.Region, focusRegion string) (*domain.Analysis, error) {
	a := domain.Analyze(regions, focusRegion)

	if _, ok := a.Profile(focusRegion); !ok {
		t.logger.Warn("focus region not in dataset, radar chart will be empty", "focus_region", focusRegion)
	}
	for _, prof := range a.Profiles {
		t.logger.Debug("region derived",
			"region", prof.Name,
			"total_caused_accidents", prof.Metrics.TotalAccidents,
			"hotspot_score", prof.Metrics.HotspotScore,
			"risk_category", prof.Metrics.Category,
		)
	}
	return a, nil
}
