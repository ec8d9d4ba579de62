package source

import "time"

// RawEncounter maps to the encounters_raw table of the operational snapshot.
// A nil DischargeDate means the stay is still open.
type RawEncounter struct {
	EncounterID     int64      `db:"encounter_id" json:"encounter_id"`
	PatientID       int64      `db:"patient_id" json:"patient_id"`
	PhysicianID     *int64     `db:"physician_id" json:"physician_id,omitempty"`
	AdmissionDate   time.Time  `db:"admission_date" json:"admission_date"`
	DischargeDate   *time.Time `db:"discharge_date" json:"discharge_date,omitempty"`
	AdmissionTypeID *int64     `db:"admission_type_id" json:"admission_type_id,omitempty"`
	DischargeTypeID *int64     `db:"discharge_type_id" json:"discharge_type_id,omitempty"`
	Cost            *float64   `db:"cost" json:"cost,omitempty"`
	DiagnosisCode   string     `db:"diagnosis_code" json:"diagnosis_code"`
	Department      string     `db:"department" json:"department"`
}

// Physician maps to the physicians dimension.
type Physician struct {
	PhysicianID int64  `db:"physician_id" json:"physician_id"`
	FirstName   string `db:"first_name" json:"first_name"`
	LastName    string `db:"last_name" json:"last_name"`
	Specialty   string `db:"specialty" json:"specialty"`
}

// FullName returns the physician's display name.
func (p *Physician) FullName() string {
	return p.FirstName + " " + p.LastName
}

// Patient maps to the patients dimension.
type Patient struct {
	PatientID int64     `db:"patient_id" json:"patient_id"`
	FirstName string    `db:"first_name" json:"first_name"`
	LastName  string    `db:"last_name" json:"last_name"`
	BirthDate time.Time `db:"birth_date" json:"birth_date"`
	Gender    string    `db:"gender" json:"gender"`
}

// AdmissionType maps to the admission_types dimension.
type AdmissionType struct {
	AdmissionTypeID int64  `db:"admission_type_id" json:"admission_type_id"`
	TypeName        string `db:"type_name" json:"type_name"`
	IsEmergency     bool   `db:"is_emergency" json:"is_emergency"`
}

// DischargeType maps to the discharge_types dimension.
type DischargeType struct {
	DischargeTypeID int64  `db:"discharge_type_id" json:"discharge_type_id"`
	TypeName        string `db:"type_name" json:"type_name"`
}
