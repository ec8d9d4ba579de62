package costsummary

import (
	"math"
	"time"
)

// MonthlySummary maps to the monthly_cost_summary table: one row per
// (calendar month, admission type, specialty) combination observed among
// costed encounters. AvgLengthOfStay is nil when no encounter in the
// group has a recorded stay duration.
type MonthlySummary struct {
	MonthStart      time.Time `db:"month_start" json:"month_start"`
	AdmissionType   string    `db:"admission_type" json:"admission_type"`
	Specialty       string    `db:"specialty" json:"specialty"`
	EncounterCount  int       `db:"encounter_count" json:"encounter_count"`
	TotalCost       float64   `db:"total_cost" json:"total_cost"`
	AvgCost         float64   `db:"avg_cost" json:"avg_cost"`
	MinCost         float64   `db:"min_cost" json:"min_cost"`
	MaxCost         float64   `db:"max_cost" json:"max_cost"`
	AvgLengthOfStay *float64  `db:"avg_length_of_stay" json:"avg_length_of_stay,omitempty"`
}

// MonthStart truncates a timestamp to the first day of its calendar month.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round1(v float64) float64 { return math.Round(v*10) / 10 }
