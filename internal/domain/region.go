package domain

import "time"

// CauseStats holds the raw measures recorded for one cause in one region.
type CauseStats struct {
	Accidents         float64 `json:"accidents"`
	Killed            float64 `json:"killed"`
	GrievouslyInjured float64 `json:"grievously_injured"`
	MinorInjury       float64 `json:"minor_injury"`
	TotalInjured      float64 `json:"total_injured"`
}

// Region is one row of the source table.
type Region struct {
	Name   string                `json:"name"`
	Causes [NumCauses]CauseStats `json:"causes"`
}

// CauseMetrics are the per-cause values derived for a region.
type CauseMetrics struct {
	Accidents       float64 `json:"accidents"`
	ContributionPct float64 `json:"contribution_pct"`
	FatalityRate    float64 `json:"fatality_rate"`
	InjuryRate      float64 `json:"injury_rate"`
}

// Metrics are the region-level values derived from a Region.
type Metrics struct {
	Causes         [NumCauses]CauseMetrics `json:"causes"`
	TotalAccidents float64                 `json:"total_caused_accidents"`
	WeightedRisk   float64                 `json:"cause_weighted_risk"`
	RecklessIndex  float64                 `json:"reckless_index"`
	HotspotScore   float64                 `json:"hotspot_score"`
	Category       RiskCategory            `json:"risk_category"`
}

// Profile is a region together with its derived metrics.
type Profile struct {
	Region
	Metrics Metrics `json:"metrics"`
}

// RankEntry is one line of the hotspot ranking.
type RankEntry struct {
	Rank           int          `json:"rank"`
	Region         string       `json:"region"`
	HotspotScore   float64      `json:"hotspot_score"`
	Category       RiskCategory `json:"risk_category"`
	TotalAccidents float64      `json:"total_caused_accidents"`
}

// Analysis is the read-only result of one pipeline run. Loaders must not
// modify it.
type Analysis struct {
	// Profiles are in source order.
	Profiles []Profile `json:"profiles"`

	// Ranking is sorted by hotspot score, highest first.
	Ranking []RankEntry `json:"ranking"`

	// FocusRegion names the region featured in the radar chart.
	FocusRegion string `json:"focus_region"`

	GeneratedAt time.Time `json:"generated_at"`
}

// Profile returns the profile named name.
func (a *Analysis) Profile(name string) (Profile, bool) {
	for _, p := range a.Profiles {
		if p.Name == name {
			return p, true
		}
	}
	return Profile{}, false
}

// CategoryCounts returns the number of regions in each risk category,
// ordered from Low to Critical. Categories with no regions are omitted.
func (a *Analysis) CategoryCounts() []CategoryCount {
	counts := make(map[RiskCategory]int)
	for _, p := range a.Profiles {
		counts[p.Metrics.Category]++
	}

	out := make([]CategoryCount, 0, len(counts))
	for _, c := range RiskCategories {
		if n := counts[c]; n > 0 {
			out = append(out, CategoryCount{Category: c, Regions: n})
		}
	}
	if n := counts[CategoryUnclassified]; n > 0 {
		out = append(out, CategoryCount{Category: CategoryUnclassified, Regions: n})
	}
	return out
}

// CategoryCount pairs a risk category with its region count.
type CategoryCount struct {
	Category RiskCategory
	Regions  int
}
