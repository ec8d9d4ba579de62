package readmission

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/clinmart/clinmart/internal/domain/consolidation"
)

type mockFacts struct {
	facts []*consolidation.EncounterFact
	err   error
}

func (m *mockFacts) ListAll(ctx context.Context) ([]*consolidation.EncounterFact, error) {
	return m.facts, m.err
}

type mockRepo struct {
	pairs      []*Pair
	replaceErr error
}

func (m *mockRepo) Replace(ctx context.Context, pairs []*Pair) (int, error) {
	if m.replaceErr != nil {
		return 0, m.replaceErr
	}
	m.pairs = pairs
	return len(pairs), nil
}

func (m *mockRepo) ListAll(ctx context.Context) ([]*Pair, error) {
	return m.pairs, nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func stay(id, patientID int64, adm time.Time, dis *time.Time, diagnosis string) *consolidation.EncounterFact {
	return &consolidation.EncounterFact{
		EncounterID:   id,
		PatientID:     patientID,
		AdmissionDate: adm,
		DischargeDate: dis,
		DiagnosisCode: diagnosis,
	}
}

func dptr(t time.Time) *time.Time { return &t }

func refresh(t *testing.T, facts []*consolidation.EncounterFact) (*mockRepo, int) {
	t.Helper()
	repo := &mockRepo{}
	svc := NewService(&mockFacts{facts: facts}, repo, zerolog.Nop())
	written, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	return repo, written
}

func TestServiceRefresh_TwoDayGapSetsBothFlags(t *testing.T) {
	repo, written := refresh(t, []*consolidation.EncounterFact{
		stay(1, 10, date(2024, 1, 1), dptr(date(2024, 1, 5)), "I21.9"),
		stay(2, 10, date(2024, 1, 7), dptr(date(2024, 1, 12)), "I50.9"),
	})
	if written != 1 {
		t.Fatalf("written = %d, want 1", written)
	}
	p := repo.pairs[0]
	if p.InitialEncounterID != 1 || p.ReadmissionEncounterID != 2 {
		t.Errorf("pair = (%d, %d), want (1, 2)", p.InitialEncounterID, p.ReadmissionEncounterID)
	}
	if p.DaysBetween != 2 {
		t.Errorf("days_between = %d, want 2", p.DaysBetween)
	}
	if !p.Within30Days || !p.Within7Days {
		t.Errorf("flags = (%v, %v), want both true", p.Within30Days, p.Within7Days)
	}
	if p.InitialDiagnosisCode != "I21.9" || p.ReadmissionDiagnosisCode != "I50.9" {
		t.Errorf("diagnosis codes not carried: %+v", p)
	}
}

func TestServiceRefresh_TenDayGapOnlyThirtyDayFlag(t *testing.T) {
	repo, written := refresh(t, []*consolidation.EncounterFact{
		stay(1, 10, date(2024, 1, 1), dptr(date(2024, 1, 5)), "I21.9"),
		stay(2, 10, date(2024, 1, 15), dptr(date(2024, 1, 20)), "I50.9"),
	})
	if written != 1 {
		t.Fatalf("written = %d, want 1", written)
	}
	p := repo.pairs[0]
	if p.DaysBetween != 10 {
		t.Errorf("days_between = %d, want 10", p.DaysBetween)
	}
	if !p.Within30Days || p.Within7Days {
		t.Errorf("flags = (%v, %v), want (true, false)", p.Within30Days, p.Within7Days)
	}
}

func TestServiceRefresh_FortyDayGapExcluded(t *testing.T) {
	_, written := refresh(t, []*consolidation.EncounterFact{
		stay(1, 10, date(2024, 1, 1), dptr(date(2024, 1, 5)), "I21.9"),
		stay(2, 10, date(2024, 2, 14), dptr(date(2024, 2, 20)), "I50.9"),
	})
	if written != 0 {
		t.Fatalf("written = %d, want 0 for a 40-day gap", written)
	}
}

func TestServiceRefresh_ExactlyThirtyDaysIncluded(t *testing.T) {
	repo, written := refresh(t, []*consolidation.EncounterFact{
		stay(1, 10, date(2024, 1, 1), dptr(date(2024, 1, 5)), "I21.9"),
		stay(2, 10, date(2024, 2, 4), nil, "I50.9"),
	})
	if written != 1 {
		t.Fatalf("written = %d, want 1 at the 30-day boundary", written)
	}
	if repo.pairs[0].DaysBetween != 30 {
		t.Errorf("days_between = %d, want 30", repo.pairs[0].DaysBetween)
	}
}

func TestServiceRefresh_OpenStayNeverInitiates(t *testing.T) {
	_, written := refresh(t, []*consolidation.EncounterFact{
		stay(1, 10, date(2024, 1, 1), nil, "I21.9"),
		stay(2, 10, date(2024, 1, 7), dptr(date(2024, 1, 12)), "I50.9"),
	})
	if written != 0 {
		t.Fatalf("written = %d; an undischarged stay must not initiate a pair", written)
	}
}

func TestServiceRefresh_SameDayReturnExcluded(t *testing.T) {
	_, written := refresh(t, []*consolidation.EncounterFact{
		stay(1, 10, date(2024, 1, 1), dptr(date(2024, 1, 5)), "I21.9"),
		stay(2, 10, date(2024, 1, 5), dptr(date(2024, 1, 8)), "I50.9"),
	})
	if written != 0 {
		t.Fatalf("written = %d; admission on the discharge day is not a readmission", written)
	}
}

func TestServiceRefresh_CrossPatientPairsNeverForm(t *testing.T) {
	_, written := refresh(t, []*consolidation.EncounterFact{
		stay(1, 10, date(2024, 1, 1), dptr(date(2024, 1, 5)), "I21.9"),
		stay(2, 11, date(2024, 1, 7), dptr(date(2024, 1, 12)), "I50.9"),
	})
	if written != 0 {
		t.Fatalf("written = %d; pairs must stay within one patient", written)
	}
}

func TestServiceRefresh_EmitsEveryQualifyingPair(t *testing.T) {
	// Three stays in quick succession: 1->2, 1->3 and 2->3 all qualify.
	repo, written := refresh(t, []*consolidation.EncounterFact{
		stay(1, 10, date(2024, 1, 1), dptr(date(2024, 1, 3)), "A"),
		stay(2, 10, date(2024, 1, 6), dptr(date(2024, 1, 8)), "B"),
		stay(3, 10, date(2024, 1, 12), dptr(date(2024, 1, 15)), "C"),
	})
	if written != 3 {
		t.Fatalf("written = %d, want 3 (no dedup to nearest pair)", written)
	}
	type key struct{ a, b int64 }
	got := make(map[key]bool)
	for _, p := range repo.pairs {
		got[key{p.InitialEncounterID, p.ReadmissionEncounterID}] = true
	}
	for _, want := range []key{{1, 2}, {1, 3}, {2, 3}} {
		if !got[want] {
			t.Errorf("missing pair %v", want)
		}
	}
}

func TestServiceRefresh_UnsortedInputHandled(t *testing.T) {
	// Listing order is not a contract; detection sorts per patient.
	repo, written := refresh(t, []*consolidation.EncounterFact{
		stay(2, 10, date(2024, 1, 7), dptr(date(2024, 1, 12)), "I50.9"),
		stay(1, 10, date(2024, 1, 1), dptr(date(2024, 1, 5)), "I21.9"),
	})
	if written != 1 {
		t.Fatalf("written = %d, want 1", written)
	}
	if repo.pairs[0].InitialEncounterID != 1 {
		t.Errorf("initial encounter = %d, want 1", repo.pairs[0].InitialEncounterID)
	}
}

func TestServiceRefresh_SourceError(t *testing.T) {
	svc := NewService(&mockFacts{err: errors.New("boom")}, &mockRepo{}, zerolog.Nop())
	if _, err := svc.Refresh(context.Background()); err == nil {
		t.Fatal("Refresh() expected error when fact listing fails")
	}
}

func TestServiceRefresh_ReplaceError(t *testing.T) {
	facts := &mockFacts{facts: []*consolidation.EncounterFact{
		stay(1, 10, date(2024, 1, 1), dptr(date(2024, 1, 5)), "I21.9"),
		stay(2, 10, date(2024, 1, 7), dptr(date(2024, 1, 12)), "I50.9"),
	}}
	svc := NewService(facts, &mockRepo{replaceErr: errors.New("boom")}, zerolog.Nop())
	if _, err := svc.Refresh(context.Background()); err == nil {
		t.Fatal("Refresh() expected error when replace fails")
	}
}
