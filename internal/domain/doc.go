// Package domain models cause-wise road accident statistics and the risk
// metrics derived from them.
//
// # Data Source
//
// The figures come from the Ministry of Road Transport and Highways annual
// "Road Accidents in India" tables, which break accidents in million-plus
// cities down by the traffic rule violation recorded as their cause. Each row
// is one city; each cause contributes five measures:
//
//	<cause> - Number of Accidents
//	<cause> - Persons Killed
//	<cause> - Persons Injured - Greviously Injured
//	<cause> - Persons Injured - Minor Injury
//	<cause> - Persons Injured - Total Injured
//
// Over-Speeding columns carry an extra " - Number" suffix and interleaved
// " - Rank" columns. The source spells "Greviously" that way. [Causes] maps
// every cause to its exact column names so no pattern matching is needed.
//
// # Derived Metrics
//
// For each region and cause:
//
//	contribution_pct = cause accidents / total accidents * 100
//	fatality_rate    = persons killed / cause accidents
//	injury_rate      = total injured / cause accidents
//
// A zero denominator yields 0, never NaN.
//
// Per region:
//
//	cause_weighted_risk = Σ accidents × multiplier
//	                      (1.8 over-speeding, 2.5 drunken, 2.0 wrong side,
//	                       1.4 red light, 1.3 mobile phone, 1.0 others)
//	reckless_index      = 3×drunken + 2×wrong side + 1.5×red light + 1.2×mobile
//	hotspot_score       = 0.4×total + 0.3×weighted risk + 0.3×reckless index
//
// # Risk Categories
//
// Hotspot scores are bucketed into four ordinal categories:
//
//	Low       0 ≤ score ≤ 500
//	Medium  500 < score ≤ 1500
//	High   1500 < score ≤ 4000
//	Critical      score > 4000
//
// A score of exactly 0 (a region with no recorded accidents) is Low.
package domain
