package domain

import "fmt"

// TierRecord is one county row of the state's blueprint data chart.
// Tiers run 1 (most restrictive) to 4; 0 means the chart left it blank.
type TierRecord struct {
	AssessmentDate     string  `yaml:"assessment_date" json:"assessment_date"`
	EndingDate         string  `yaml:"ending_date" json:"ending_date"`
	FinalTier          int     `yaml:"final_tier" json:"final_tier" validate:"min=0,max=4"`
	PreviousTier       int     `yaml:"previous_tier" json:"previous_tier" validate:"min=0,max=4"`
	StartingDate       string  `yaml:"starting_date" json:"starting_date"`
	CurrentTier        int     `yaml:"current_tier" json:"current_tier" validate:"min=0,max=4"`
	TestPositivity     float64 `yaml:"test_positivity" json:"test_positivity" validate:"min=0"`
	AdjustedCaseRate   float64 `yaml:"adjusted_case_rate" json:"adjusted_case_rate" validate:"min=0"`
	UnadjustedCaseRate float64 `yaml:"unadjusted_case_rate" json:"unadjusted_case_rate" validate:"min=0"`
	AdjustmentFactor   float64 `yaml:"adjustment_factor" json:"adjustment_factor"`
	TestsPer100K       float64 `yaml:"tests_per_100k" json:"tests_per_100k" validate:"min=0"`
	Population         int64   `yaml:"population" json:"population" validate:"min=0"`
	HEQPositivity      float64 `yaml:"HEQ_positivity" json:"heq_positivity"`
}

var (
	tierDescriptions = map[int]string{
		1: "Widespread",
		2: "Substantial",
		3: "Moderate",
		4: "Minimal",
	}
	tierColors = map[int]string{
		1: "purple",
		2: "red",
		3: "orange",
		4: "yellow",
	}
)

// TierDescription names a tier, or returns "" for an unknown tier.
func TierDescription(tier int) string {
	return tierDescriptions[tier]
}

// TierColor is the display color of a tier, or "" for an unknown tier.
func TierColor(tier int) string {
	return tierColors[tier]
}

// QuickSummary renders the final tier, prefixed with the previous tier when
// the assignment changed: "Substantial->Widespread".
func (r TierRecord) QuickSummary() string {
	final := TierDescription(r.FinalTier)
	prev := TierDescription(r.PreviousTier)
	if final == prev {
		return final
	}
	return fmt.Sprintf("%s->%s", prev, final)
}

// TierStatus is the tier view attached to an entity snapshot.
type TierStatus struct {
	Summary      string  `json:"summary"`
	Final        string  `json:"final"`
	FinalColor   string  `json:"final_color"`
	Previous     string  `json:"previous"`
	Current      string  `json:"current"`
	CurrentColor string  `json:"current_color"`
	Positivity   float64 `json:"test_positivity"`
	TestsPer100K float64 `json:"tests_per_100k"`
	Population   int64   `json:"population"`
}

// Status derives the display view of r.
func (r TierRecord) Status() TierStatus {
	return TierStatus{
		Summary:      r.QuickSummary(),
		Final:        TierDescription(r.FinalTier),
		FinalColor:   TierColor(r.FinalTier),
		Previous:     TierDescription(r.PreviousTier),
		Current:      TierDescription(r.CurrentTier),
		CurrentColor: TierColor(r.CurrentTier),
		Positivity:   r.TestPositivity,
		TestsPer100K: r.TestsPer100K,
		Population:   r.Population,
	}
}
