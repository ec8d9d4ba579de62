package firstvisit

import "time"

// FirstVisit maps to the patient_first_visit table: the earliest
// consolidated encounter for each patient, with identifying detail
// carried over from the fact row.
type FirstVisit struct {
	PatientID      int64     `db:"patient_id" json:"patient_id"`
	EncounterID    int64     `db:"encounter_id" json:"encounter_id"`
	FirstVisitDate time.Time `db:"first_visit_date" json:"first_visit_date"`
	PhysicianName  string    `db:"physician_name" json:"physician_name"`
	Specialty      string    `db:"specialty" json:"specialty"`
	AdmissionType  string    `db:"admission_type" json:"admission_type"`
}
