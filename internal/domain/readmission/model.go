package readmission

import "time"

// Pair maps to the readmission table: one row per qualifying pair of
// encounters for the same patient where the second admission falls
// within thirty days after the first discharge. Within30Days is true on
// every row by construction; Within7Days marks the stricter window.
type Pair struct {
	InitialEncounterID       int64     `db:"initial_encounter_id" json:"initial_encounter_id"`
	ReadmissionEncounterID   int64     `db:"readmission_encounter_id" json:"readmission_encounter_id"`
	PatientID                int64     `db:"patient_id" json:"patient_id"`
	DischargeDate            time.Time `db:"discharge_date" json:"discharge_date"`
	ReadmissionDate          time.Time `db:"readmission_date" json:"readmission_date"`
	InitialDiagnosisCode     string    `db:"initial_diagnosis_code" json:"initial_diagnosis_code"`
	ReadmissionDiagnosisCode string    `db:"readmission_diagnosis_code" json:"readmission_diagnosis_code"`
	DaysBetween              int       `db:"days_between" json:"days_between"`
	Within30Days             bool      `db:"within_30_days" json:"within_30_days"`
	Within7Days              bool      `db:"within_7_days" json:"within_7_days"`
}
