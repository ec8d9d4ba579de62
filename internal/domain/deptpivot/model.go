package deptpivot

import "time"

// KnownSpecialties is the fixed, ordered set of specialties that get a
// dedicated column in department_monthly_pivot. Anything else lands in
// other_count.
var KnownSpecialties = []string{"Cardiology", "Neurology", "Orthopedics", "Pediatrics", "Oncology"}

// MonthStart truncates a timestamp to the first day of its calendar month.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// PivotRow maps to the department_monthly_pivot table: one row per
// calendar month, counting that month's encounters per specialty.
// TotalCount always equals the sum of the specialty columns plus
// OtherCount.
type PivotRow struct {
	MonthStart       time.Time `db:"month_start" json:"month_start"`
	CardiologyCount  int       `db:"cardiology_count" json:"cardiology_count"`
	NeurologyCount   int       `db:"neurology_count" json:"neurology_count"`
	OrthopedicsCount int       `db:"orthopedics_count" json:"orthopedics_count"`
	PediatricsCount  int       `db:"pediatrics_count" json:"pediatrics_count"`
	OncologyCount    int       `db:"oncology_count" json:"oncology_count"`
	OtherCount       int       `db:"other_count" json:"other_count"`
	TotalCount       int       `db:"total_count" json:"total_count"`
}

func (r *PivotRow) add(specialty string) {
	switch specialty {
	case "Cardiology":
		r.CardiologyCount++
	case "Neurology":
		r.NeurologyCount++
	case "Orthopedics":
		r.OrthopedicsCount++
	case "Pediatrics":
		r.PediatricsCount++
	case "Oncology":
		r.OncologyCount++
	default:
		r.OtherCount++
	}
	r.TotalCount++
}
