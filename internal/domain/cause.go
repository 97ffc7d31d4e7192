package domain

// Cause identifies one of the six recorded contributing factors.
type Cause int

const (
	OverSpeeding Cause = iota
	DrunkenDriving
	WrongSideDriving
	RedLightJumping
	MobilePhoneUse
	OtherCauses

	// NumCauses is the number of recorded causes.
	NumCauses = 6
)

// SourceColumns holds the column names of one cause in the source table.
type SourceColumns struct {
	Accidents         string
	Killed            string
	GrievouslyInjured string
	MinorInjury       string
	TotalInjured      string
}

// CauseInfo describes how a cause is read and weighted.
type CauseInfo struct {
	Cause Cause

	// Key prefixes every derived field name, e.g. "Drunken_Driving_accidents".
	Key string

	// Label is the human-readable name used on charts.
	Label string

	// RiskMultiplier weights the cause's accidents in cause_weighted_risk.
	RiskMultiplier float64

	// RecklessWeight weights the cause's accidents in reckless_index.
	// Zero for causes that do not count as reckless behaviour.
	RecklessWeight float64

	Columns SourceColumns
}

// Causes lists every cause in canonical order. The order is significant: it
// drives export column order, heatmap columns, and radar axes.
var Causes = [NumCauses]CauseInfo{
	{
		Cause:          OverSpeeding,
		Key:            "Over-Speeding",
		Label:          "Over-Speeding",
		RiskMultiplier: 1.8,
		Columns: SourceColumns{
			Accidents:         "Over-Speeding - Number of Accidents - Number",
			Killed:            "Over-Speeding - Persons Killed - Number",
			GrievouslyInjured: "Over-Speeding - Persons Injured - Greviously Injured",
			MinorInjury:       "Over-Speeding - Persons Injured - Minor Injury",
			TotalInjured:      "Over-Speeding - Persons Injured - Total Injured",
		},
	},
	{
		Cause:          DrunkenDriving,
		Key:            "Drunken_Driving",
		Label:          "Drunken Driving",
		RiskMultiplier: 2.5,
		RecklessWeight: 3,
		Columns:        columnsFor("Drunken Driving"),
	},
	{
		Cause:          WrongSideDriving,
		Key:            "Wrong_Side",
		Label:          "Wrong-Side Driving",
		RiskMultiplier: 2.0,
		RecklessWeight: 2,
		Columns:        columnsFor("Driving on Wrong side"),
	},
	{
		Cause:          RedLightJumping,
		Key:            "Red_Light",
		Label:          "Red-Light Jumping",
		RiskMultiplier: 1.4,
		RecklessWeight: 1.5,
		Columns:        columnsFor("Jumping Red Light"),
	},
	{
		Cause:          MobilePhoneUse,
		Key:            "Mobile_Phone",
		Label:          "Mobile-Phone Use",
		RiskMultiplier: 1.3,
		RecklessWeight: 1.2,
		Columns:        columnsFor("Use of Mobile Phone"),
	},
	{
		Cause:          OtherCauses,
		Key:            "Others",
		Label:          "Others",
		RiskMultiplier: 1.0,
		Columns:        columnsFor("Others"),
	},
}

// columnsFor builds the column names shared by every cause except
// Over-Speeding, whose headers carry an extra " - Number" suffix.
func columnsFor(prefix string) SourceColumns {
	return SourceColumns{
		Accidents:         prefix + " - Number of Accidents",
		Killed:            prefix + " - Persons Killed",
		GrievouslyInjured: prefix + " - Persons Injured - Greviously Injured",
		MinorInjury:       prefix + " - Persons Injured - Minor Injury",
		TotalInjured:      prefix + " - Persons Injured - Total Injured",
	}
}

// Info returns the catalogue entry for c.
func (c Cause) Info() CauseInfo {
	return Causes[c]
}

func (c Cause) String() string {
	if c < 0 || int(c) >= NumCauses {
		return "unknown"
	}
	return Causes[c].Key
}

// Derived field names, keyed by cause.

func (c Cause) AccidentsField() string       { return c.String() + "_accidents" }
func (c Cause) ContributionPctField() string { return c.String() + "_contribution_pct" }
func (c Cause) FatalityRateField() string    { return c.String() + "_fatality_rate" }
func (c Cause) InjuryRateField() string      { return c.String() + "_injury_rate" }

// Region-level derived field names.
const (
	FieldRegion         = "States/UTs"
	FieldTotalAccidents = "total_caused_accidents"
	FieldWeightedRisk   = "cause_weighted_risk"
	FieldRecklessIndex  = "reckless_index"
	FieldHotspotScore   = "hotspot_score"
	FieldRiskCategory   = "risk_category"
)
