package domain

import (
	"math"
	"sort"
)

// Weights of the hotspot score blend. They sum to 1.0.
const (
	weightTotalAccidents = 0.4
	weightWeightedRisk   = 0.3
	weightRecklessIndex  = 0.3
)

// Derive computes every metric for a region. Each step reads only values
// produced by earlier steps, so the order below is significant.
func Derive(r Region) Profile {
	var m Metrics

	for i := range Causes {
		m.Causes[i].Accidents = r.Causes[i].Accidents
		m.TotalAccidents += r.Causes[i].Accidents
	}

	for i := range Causes {
		cm := &m.Causes[i]
		cm.ContributionPct = ratio(cm.Accidents, m.TotalAccidents) * 100
		cm.FatalityRate = ratio(r.Causes[i].Killed, cm.Accidents)
		cm.InjuryRate = ratio(r.Causes[i].TotalInjured, cm.Accidents)
	}

	m.WeightedRisk = WeightedRisk(m.Causes)
	m.RecklessIndex = RecklessIndex(m.Causes)
	m.HotspotScore = HotspotScore(m.TotalAccidents, m.WeightedRisk, m.RecklessIndex)
	m.Category = Categorize(m.HotspotScore)

	return Profile{Region: r, Metrics: m}
}

// DeriveAll derives a profile for every region, preserving order.
func DeriveAll(regions []Region) []Profile {
	out := make([]Profile, len(regions))
	for i, r := range regions {
		out[i] = Derive(r)
	}
	return out
}

// WeightedRisk sums each cause's accidents scaled by its risk multiplier.
func WeightedRisk(causes [NumCauses]CauseMetrics) float64 {
	var sum float64
	for i, info := range Causes {
		sum += causes[i].Accidents * info.RiskMultiplier
	}
	return sum
}

// RecklessIndex sums the accidents of the reckless-behaviour causes scaled
// by their coefficients.
func RecklessIndex(causes [NumCauses]CauseMetrics) float64 {
	var sum float64
	for i, info := range Causes {
		sum += causes[i].Accidents * info.RecklessWeight
	}
	return sum
}

// HotspotScore blends accident volume, weighted risk and the reckless index.
func HotspotScore(total, weightedRisk, recklessIndex float64) float64 {
	return total*weightTotalAccidents +
		weightedRisk*weightWeightedRisk +
		recklessIndex*weightRecklessIndex
}

// Rank orders profiles by hotspot score, highest first. Equal scores keep
// their source order.
func Rank(profiles []Profile) []RankEntry {
	entries := make([]RankEntry, len(profiles))
	for i, p := range profiles {
		entries[i] = RankEntry{
			Region:         p.Name,
			HotspotScore:   p.Metrics.HotspotScore,
			Category:       p.Metrics.Category,
			TotalAccidents: p.Metrics.TotalAccidents,
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].HotspotScore > entries[j].HotspotScore
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// ratio divides num by den, returning 0 when the result would be undefined.
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	v := num / den
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
