package domain

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-9

// makeRegion builds a region from per-cause accidents, killed and total injured.
func makeRegion(name string, accidents, killed, injured [NumCauses]float64) Region {
	r := Region{Name: name}
	for i := range r.Causes {
		r.Causes[i] = CauseStats{
			Accidents:    accidents[i],
			Killed:       killed[i],
			TotalInjured: injured[i],
		}
	}
	return r
}

// referenceRegions mirrors the embedded dataset figures.
func referenceRegions() []Region {
	return []Region{
		makeRegion("Aurangabad",
			[NumCauses]float64{534, 0, 0, 0, 0, 26},
			[NumCauses]float64{179, 0, 0, 0, 0, 20},
			[NumCauses]float64{408, 0, 0, 0, 0, 26}),
		makeRegion("Mumbai",
			[NumCauses]float64{514, 61, 45, 15, 3, 2234},
			[NumCauses]float64{120, 5, 3, 1, 0, 318},
			[NumCauses]float64{526, 80, 50, 20, 4, 2245}),
		makeRegion("Nagpur",
			[NumCauses]float64{469, 39, 90, 0, 54, 355},
			[NumCauses]float64{132, 6, 14, 0, 2, 96},
			[NumCauses]float64{492, 45, 96, 0, 54, 355}),
		makeRegion("Nashik",
			[NumCauses]float64{529, 6, 16, 2, 0, 0},
			[NumCauses]float64{172, 3, 2, 0, 0, 0},
			[NumCauses]float64{512, 5, 22, 1, 0, 0}),
		makeRegion("Pune",
			[NumCauses]float64{301, 21, 16, 14, 0, 439},
			[NumCauses]float64{70, 2, 4, 2, 0, 128},
			[NumCauses]float64{219, 13, 12, 12, 0, 370}),
	}
}

func TestDerive_Mumbai(t *testing.T) {
	p := Derive(referenceRegions()[1])
	m := p.Metrics

	assert.Equal(t, "Mumbai", p.Name)
	assert.Equal(t, 514.0+61+45+15+3+2234, m.TotalAccidents)
	assert.InDelta(t, 3426.6, m.WeightedRisk, tolerance)
	assert.InDelta(t, 299.1, m.RecklessIndex, tolerance)
	assert.InDelta(t, 2266.51, m.HotspotScore, tolerance)
	assert.Equal(t, CategoryHigh, m.Category)

	assert.Equal(t, 61.0, m.Causes[DrunkenDriving].Accidents)
	assert.InDelta(t, 514.0/2872*100, m.Causes[OverSpeeding].ContributionPct, tolerance)
	assert.InDelta(t, 120.0/514, m.Causes[OverSpeeding].FatalityRate, tolerance)
	assert.InDelta(t, 80.0/61, m.Causes[DrunkenDriving].InjuryRate, tolerance)
	assert.InDelta(t, 0.0, m.Causes[MobilePhoneUse].FatalityRate, tolerance)
}

func TestDerive_ReferenceScores(t *testing.T) {
	tests := []struct {
		region   string
		total    float64
		score    float64
		category RiskCategory
	}{
		{"Aurangabad", 560, 520.16, CategoryMedium},
		{"Mumbai", 2872, 2266.51, CategoryHigh},
		{"Nagpur", 1007, 975.41, CategoryMedium},
		{"Nashik", 553, 537.7, CategoryMedium},
		{"Pune", 791, 676.67, CategoryMedium},
	}

	profiles := DeriveAll(referenceRegions())
	require.Len(t, profiles, len(tests))

	for i, tt := range tests {
		t.Run(tt.region, func(t *testing.T) {
			m := profiles[i].Metrics
			assert.Equal(t, tt.region, profiles[i].Name)
			assert.Equal(t, tt.total, m.TotalAccidents)
			assert.InDelta(t, tt.score, m.HotspotScore, 1e-6)
			assert.Equal(t, tt.category, m.Category)
		})
	}
}

func TestDerive_ContributionSumsTo100(t *testing.T) {
	for _, p := range DeriveAll(referenceRegions()) {
		var sum float64
		for _, cm := range p.Metrics.Causes {
			sum += cm.ContributionPct
		}
		assert.InDelta(t, 100, sum, tolerance, p.Name)
	}
}

func TestDerive_ZeroAccidents(t *testing.T) {
	p := Derive(Region{Name: "Empty"})
	m := p.Metrics

	assert.Zero(t, m.TotalAccidents)
	for i, cm := range m.Causes {
		assert.Zero(t, cm.ContributionPct, Causes[i].Key)
		assert.Zero(t, cm.FatalityRate, Causes[i].Key)
		assert.Zero(t, cm.InjuryRate, Causes[i].Key)
	}
	assert.Zero(t, m.HotspotScore)
	assert.Equal(t, CategoryLow, m.Category)
}

func TestDerive_KilledWithoutAccidentsStaysZero(t *testing.T) {
	var r Region
	r.Causes[WrongSideDriving] = CauseStats{Killed: 4, TotalInjured: 9}
	r.Causes[OtherCauses] = CauseStats{Accidents: 10, Killed: 1}

	m := Derive(r).Metrics

	assert.Zero(t, m.Causes[WrongSideDriving].FatalityRate)
	assert.Zero(t, m.Causes[WrongSideDriving].InjuryRate)
	assert.False(t, math.IsNaN(m.Causes[WrongSideDriving].FatalityRate))
	assert.InDelta(t, 0.1, m.Causes[OtherCauses].FatalityRate, tolerance)
	assert.InDelta(t, 100, m.Causes[OtherCauses].ContributionPct, tolerance)
}

func TestDerive_Deterministic(t *testing.T) {
	r := referenceRegions()[2]
	first := Derive(r)
	second := Derive(r)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Derive not deterministic (-first +second):\n%s", diff)
	}
	assert.Equal(t, HotspotScore(first.Metrics.TotalAccidents, first.Metrics.WeightedRisk, first.Metrics.RecklessIndex), second.Metrics.HotspotScore)
}

func TestDerive_DoesNotModifyInput(t *testing.T) {
	regions := referenceRegions()
	before := referenceRegions()

	_ = DeriveAll(regions)

	if diff := cmp.Diff(before, regions); diff != "" {
		t.Errorf("input regions changed (-before +after):\n%s", diff)
	}
}

func TestRecklessIndex_IgnoresOverSpeedingAndOthers(t *testing.T) {
	var causes [NumCauses]CauseMetrics
	causes[OverSpeeding].Accidents = 100
	causes[OtherCauses].Accidents = 100
	assert.Zero(t, RecklessIndex(causes))

	causes[DrunkenDriving].Accidents = 1
	causes[WrongSideDriving].Accidents = 1
	causes[RedLightJumping].Accidents = 1
	causes[MobilePhoneUse].Accidents = 1
	assert.InDelta(t, 3+2+1.5+1.2, RecklessIndex(causes), tolerance)
}

func TestWeightedRisk_Multipliers(t *testing.T) {
	var causes [NumCauses]CauseMetrics
	for i := range causes {
		causes[i].Accidents = 1
	}
	assert.InDelta(t, 1.8+2.5+2.0+1.4+1.3+1.0, WeightedRisk(causes), tolerance)
}

func TestRank_OrderAndTies(t *testing.T) {
	ranking := Rank(DeriveAll(referenceRegions()))

	names := make([]string, len(ranking))
	for i, e := range ranking {
		names[i] = e.Region
		assert.Equal(t, i+1, e.Rank)
	}
	assert.Equal(t, []string{"Mumbai", "Nagpur", "Pune", "Nashik", "Aurangabad"}, names)

	for i := 1; i < len(ranking); i++ {
		assert.GreaterOrEqual(t, ranking[i-1].HotspotScore, ranking[i].HotspotScore)
	}
}

func TestRank_StableForEqualScores(t *testing.T) {
	same := [NumCauses]float64{10, 0, 0, 0, 0, 0}
	profiles := DeriveAll([]Region{
		makeRegion("B", same, same, same),
		makeRegion("A", same, same, same),
	})

	ranking := Rank(profiles)
	assert.Equal(t, "B", ranking[0].Region)
	assert.Equal(t, "A", ranking[1].Region)
}

func TestAnalyze_UsesClock(t *testing.T) {
	at := time.Date(2026, time.October, 18, 9, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(at))
	t.Cleanup(func() { SetClock(nil) })

	a := Analyze(referenceRegions(), "Mumbai")

	assert.Equal(t, at, a.GeneratedAt)
	assert.Equal(t, "Mumbai", a.FocusRegion)
	assert.Len(t, a.Profiles, 5)
	assert.Equal(t, "Aurangabad", a.Profiles[0].Name)
	assert.Equal(t, "Mumbai", a.Ranking[0].Region)

	p, ok := a.Profile("Pune")
	require.True(t, ok)
	assert.Equal(t, 791.0, p.Metrics.TotalAccidents)

	_, ok = a.Profile("Delhi")
	assert.False(t, ok)
}

func TestAnalysis_CategoryCounts(t *testing.T) {
	a := Analyze(referenceRegions(), "")
	assert.Equal(t, []CategoryCount{
		{Category: CategoryMedium, Regions: 4},
		{Category: CategoryHigh, Regions: 1},
	}, a.CategoryCounts())
}
