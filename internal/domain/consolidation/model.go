package consolidation

import (
	"time"

	"github.com/clinmart/clinmart/internal/domain/source"
)

// Fallback labels written when a dimension lookup does not resolve.
// A missed lookup is never a reason to drop an encounter.
const (
	UnassignedPhysician  = "Unassigned"
	UnknownSpecialty     = "Unknown"
	UnknownAdmissionType = "Unknown"
	NotDischarged        = "Not Discharged"
)

// EncounterFact maps to the encounter_fact table: one denormalized row per
// raw encounter. LengthOfStayDays and Cost stay nil when the underlying
// value is absent; nothing is fabricated.
type EncounterFact struct {
	EncounterID        int64      `db:"encounter_id" json:"encounter_id"`
	PatientID          int64      `db:"patient_id" json:"patient_id"`
	PhysicianName      string     `db:"physician_name" json:"physician_name"`
	PhysicianSpecialty string     `db:"physician_specialty" json:"physician_specialty"`
	AdmissionDate      time.Time  `db:"admission_date" json:"admission_date"`
	DischargeDate      *time.Time `db:"discharge_date" json:"discharge_date,omitempty"`
	LengthOfStayDays   *int       `db:"length_of_stay_days" json:"length_of_stay_days,omitempty"`
	AdmissionType      string     `db:"admission_type" json:"admission_type"`
	DischargeType      string     `db:"discharge_type" json:"discharge_type"`
	IsEmergency        bool       `db:"is_emergency" json:"is_emergency"`
	PatientAge         int        `db:"patient_age" json:"patient_age"`
	AgeGroup           string     `db:"age_group" json:"age_group"`
	Department         string     `db:"department" json:"department"`
	DiagnosisCode      string     `db:"diagnosis_code" json:"diagnosis_code"`
	Cost               *float64   `db:"cost" json:"cost,omitempty"`
}

// AgeGroup buckets an age into the reporting bands. First match wins; the
// bands cover every non-negative age exactly once.
func AgeGroup(age int) string {
	switch {
	case age < 18:
		return "0-17"
	case age < 45:
		return "18-44"
	case age < 65:
		return "45-64"
	default:
		return "65+"
	}
}

// BuildFact derives one EncounterFact from a raw encounter and its resolved
// dimensions. physician, admType and disType may be nil, in which case the
// fallback labels apply. patient must not be nil; the caller treats a
// missing patient as fatal.
//
// Age is admission year minus birth year (ordinal, not calendar-precise),
// matching the upstream snapshot's year-difference arithmetic.
func BuildFact(ev *source.RawEncounter, patient *source.Patient, physician *source.Physician,
	admType *source.AdmissionType, disType *source.DischargeType) *EncounterFact {

	fact := &EncounterFact{
		EncounterID:        ev.EncounterID,
		PatientID:          ev.PatientID,
		PhysicianName:      UnassignedPhysician,
		PhysicianSpecialty: UnknownSpecialty,
		AdmissionDate:      ev.AdmissionDate,
		DischargeDate:      ev.DischargeDate,
		AdmissionType:      UnknownAdmissionType,
		DischargeType:      NotDischarged,
		Department:         ev.Department,
		DiagnosisCode:      ev.DiagnosisCode,
		Cost:               ev.Cost,
	}

	if physician != nil {
		fact.PhysicianName = physician.FullName()
		fact.PhysicianSpecialty = physician.Specialty
	}
	if admType != nil {
		fact.AdmissionType = admType.TypeName
		fact.IsEmergency = admType.IsEmergency
	}
	if disType != nil {
		fact.DischargeType = disType.TypeName
	}

	if ev.DischargeDate != nil {
		days := int(ev.DischargeDate.Sub(ev.AdmissionDate) / (24 * time.Hour))
		fact.LengthOfStayDays = &days
	}

	fact.PatientAge = ev.AdmissionDate.Year() - patient.BirthDate.Year()
	fact.AgeGroup = AgeGroup(fact.PatientAge)

	return fact
}
