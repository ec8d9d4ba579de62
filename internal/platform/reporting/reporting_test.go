package reporting

import (
	"strings"
	"testing"
)

func TestPredefinedMeasures(t *testing.T) {
	if len(PredefinedMeasures) != 5 {
		t.Fatalf("expected 5 predefined measures, got %d", len(PredefinedMeasures))
	}

	expectedIDs := []string{
		"encounter-volume-by-month",
		"cost-by-specialty",
		"readmission-rate",
		"age-group-distribution",
		"emergency-share",
	}

	for i, expectedID := range expectedIDs {
		if PredefinedMeasures[i].ID != expectedID {
			t.Errorf("expected measure[%d].ID = %s, got %s", i, expectedID, PredefinedMeasures[i].ID)
		}
	}
}

func TestPredefinedMeasures_HaveSQL(t *testing.T) {
	for _, m := range PredefinedMeasures {
		if m.SQL == "" {
			t.Errorf("measure %s has empty SQL", m.ID)
		}
		if m.Name == "" {
			t.Errorf("measure %s has empty name", m.ID)
		}
		if m.Description == "" {
			t.Errorf("measure %s has empty description", m.ID)
		}
	}
}

func TestPredefinedMeasures_QueryMartTablesOnly(t *testing.T) {
	martTables := []string{"encounter_fact", "monthly_cost_summary", "patient_first_visit", "readmission", "department_monthly_pivot"}
	for _, m := range PredefinedMeasures {
		found := false
		for _, table := range martTables {
			if strings.Contains(m.SQL, table) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("measure %s does not query a mart table: %s", m.ID, m.SQL)
		}
	}
}

func TestFindMeasure_Exists(t *testing.T) {
	m := FindMeasure("readmission-rate")
	if m == nil {
		t.Fatal("expected to find readmission-rate measure")
	}
	if m.Name != "Readmission Rate" {
		t.Errorf("expected 'Readmission Rate', got %s", m.Name)
	}
}

func TestFindMeasure_NotFound(t *testing.T) {
	if m := FindMeasure("nonexistent"); m != nil {
		t.Error("expected nil for nonexistent measure")
	}
}

func TestFindMeasure_AllPredefined(t *testing.T) {
	for _, def := range PredefinedMeasures {
		found := FindMeasure(def.ID)
		if found == nil {
			t.Errorf("expected to find measure %s", def.ID)
			continue
		}
		if found.ID != def.ID {
			t.Errorf("ID mismatch: expected %s, got %s", def.ID, found.ID)
		}
	}
}

func TestNewHandler(t *testing.T) {
	h := NewHandler(nil)
	if h == nil {
		t.Fatal("expected non-nil handler")
	}
}
