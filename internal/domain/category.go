package domain

import "math"

// RiskCategory is the ordinal bucket a hotspot score falls into.
type RiskCategory string

const (
	CategoryLow      RiskCategory = "Low"
	CategoryMedium   RiskCategory = "Medium"
	CategoryHigh     RiskCategory = "High"
	CategoryCritical RiskCategory = "Critical"

	// CategoryUnclassified is assigned to scores that fall outside every
	// bucket (negative or NaN). Valid input never produces it.
	CategoryUnclassified RiskCategory = "Unclassified"
)

// RiskCategories lists the categories from lowest to highest risk.
var RiskCategories = []RiskCategory{CategoryLow, CategoryMedium, CategoryHigh, CategoryCritical}

// Upper bounds (inclusive) of the Low, Medium and High buckets.
const (
	ThresholdLow    = 500.0
	ThresholdMedium = 1500.0
	ThresholdHigh   = 4000.0
)

// Categorize maps a hotspot score to its risk category. Buckets are closed on
// the right; the Low bucket also includes 0.
func Categorize(score float64) RiskCategory {
	switch {
	case math.IsNaN(score) || score < 0:
		return CategoryUnclassified
	case score <= ThresholdLow:
		return CategoryLow
	case score <= ThresholdMedium:
		return CategoryMedium
	case score <= ThresholdHigh:
		return CategoryHigh
	default:
		return CategoryCritical
	}
}
