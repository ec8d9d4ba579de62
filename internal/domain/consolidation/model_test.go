package consolidation

import (
	"testing"
	"time"

	"github.com/clinmart/clinmart/internal/domain/source"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAgeGroup_Boundaries(t *testing.T) {
	cases := []struct {
		age  int
		want string
	}{
		{0, "0-17"},
		{17, "0-17"},
		{18, "18-44"},
		{44, "18-44"},
		{45, "45-64"},
		{64, "45-64"},
		{65, "65+"},
		{99, "65+"},
	}
	for _, tc := range cases {
		if got := AgeGroup(tc.age); got != tc.want {
			t.Errorf("AgeGroup(%d) = %q, want %q", tc.age, got, tc.want)
		}
	}
}

func TestAgeGroup_PartitionsAgeDomain(t *testing.T) {
	// Every non-negative age maps to exactly one band: no gaps, no overlaps.
	bands := map[string]bool{"0-17": true, "18-44": true, "45-64": true, "65+": true}
	for age := 0; age <= 120; age++ {
		got := AgeGroup(age)
		if !bands[got] {
			t.Fatalf("AgeGroup(%d) = %q, not a known band", age, got)
		}
	}
}

func TestBuildFact_AllDimensionsResolved(t *testing.T) {
	discharge := date(2024, 3, 15)
	cost := 4200.50
	physID := int64(7)
	admID := int64(1)
	disID := int64(2)

	ev := &source.RawEncounter{
		EncounterID:     101,
		PatientID:       5,
		PhysicianID:     &physID,
		AdmissionDate:   date(2024, 3, 10),
		DischargeDate:   &discharge,
		AdmissionTypeID: &admID,
		DischargeTypeID: &disID,
		Cost:            &cost,
		DiagnosisCode:   "I21.9",
		Department:      "Cardiology Ward",
	}
	patient := &source.Patient{PatientID: 5, FirstName: "Ana", LastName: "Ruiz", BirthDate: date(1980, 6, 1)}
	physician := &source.Physician{PhysicianID: 7, FirstName: "James", LastName: "Lee", Specialty: "Cardiology"}
	admType := &source.AdmissionType{AdmissionTypeID: 1, TypeName: "Emergency", IsEmergency: true}
	disType := &source.DischargeType{DischargeTypeID: 2, TypeName: "Home"}

	fact := BuildFact(ev, patient, physician, admType, disType)

	if fact.EncounterID != 101 || fact.PatientID != 5 {
		t.Errorf("identifiers not carried through: %+v", fact)
	}
	if fact.PhysicianName != "James Lee" {
		t.Errorf("physician_name = %q, want %q", fact.PhysicianName, "James Lee")
	}
	if fact.PhysicianSpecialty != "Cardiology" {
		t.Errorf("specialty = %q", fact.PhysicianSpecialty)
	}
	if fact.AdmissionType != "Emergency" || !fact.IsEmergency {
		t.Errorf("admission type not resolved: %+v", fact)
	}
	if fact.DischargeType != "Home" {
		t.Errorf("discharge type = %q", fact.DischargeType)
	}
	if fact.LengthOfStayDays == nil || *fact.LengthOfStayDays != 5 {
		t.Errorf("length_of_stay_days = %v, want 5", fact.LengthOfStayDays)
	}
	if fact.PatientAge != 44 {
		t.Errorf("patient_age = %d, want 44", fact.PatientAge)
	}
	if fact.AgeGroup != "18-44" {
		t.Errorf("age_group = %q, want 18-44", fact.AgeGroup)
	}
	if fact.Cost == nil || *fact.Cost != 4200.50 {
		t.Errorf("cost = %v, want 4200.50", fact.Cost)
	}
}

func TestBuildFact_UnresolvedDimensionsFallBack(t *testing.T) {
	ev := &source.RawEncounter{
		EncounterID:   102,
		PatientID:     5,
		AdmissionDate: date(2024, 4, 1),
		DiagnosisCode: "J18.9",
		Department:    "General Medicine",
	}
	patient := &source.Patient{PatientID: 5, BirthDate: date(2010, 1, 1)}

	fact := BuildFact(ev, patient, nil, nil, nil)

	if fact.PhysicianName != UnassignedPhysician {
		t.Errorf("physician_name = %q, want %q", fact.PhysicianName, UnassignedPhysician)
	}
	if fact.PhysicianSpecialty != UnknownSpecialty {
		t.Errorf("specialty = %q, want %q", fact.PhysicianSpecialty, UnknownSpecialty)
	}
	if fact.AdmissionType != UnknownAdmissionType {
		t.Errorf("admission_type = %q, want %q", fact.AdmissionType, UnknownAdmissionType)
	}
	if fact.DischargeType != NotDischarged {
		t.Errorf("discharge_type = %q, want %q", fact.DischargeType, NotDischarged)
	}
	if fact.IsEmergency {
		t.Error("is_emergency should default to false")
	}
	if fact.AgeGroup != "0-17" {
		t.Errorf("age_group = %q, want 0-17", fact.AgeGroup)
	}
}

func TestBuildFact_OpenStayHasNoDuration(t *testing.T) {
	ev := &source.RawEncounter{
		EncounterID:   103,
		PatientID:     5,
		AdmissionDate: date(2024, 4, 1),
	}
	patient := &source.Patient{PatientID: 5, BirthDate: date(1950, 12, 31)}

	fact := BuildFact(ev, patient, nil, nil, nil)

	if fact.DischargeDate != nil {
		t.Error("discharge_date should be nil for open stay")
	}
	if fact.LengthOfStayDays != nil {
		t.Errorf("length_of_stay_days should be nil, got %d", *fact.LengthOfStayDays)
	}
	if fact.Cost != nil {
		t.Error("cost should be nil when raw cost is absent")
	}
}

func TestBuildFact_SameDayDischarge(t *testing.T) {
	sameDay := date(2024, 4, 1)
	ev := &source.RawEncounter{
		EncounterID:   104,
		PatientID:     5,
		AdmissionDate: sameDay,
		DischargeDate: &sameDay,
	}
	patient := &source.Patient{PatientID: 5, BirthDate: date(1990, 1, 1)}

	fact := BuildFact(ev, patient, nil, nil, nil)
	if fact.LengthOfStayDays == nil || *fact.LengthOfStayDays != 0 {
		t.Errorf("length_of_stay_days = %v, want 0", fact.LengthOfStayDays)
	}
}
