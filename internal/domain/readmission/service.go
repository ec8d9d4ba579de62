package readmission

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/clinmart/clinmart/internal/domain/consolidation"
)

// Readmission windows in days.
const (
	WindowDays       = 30
	StrictWindowDays = 7
)

// FactSource yields the current consolidated fact table.
type FactSource interface {
	ListAll(ctx context.Context) ([]*consolidation.EncounterFact, error)
}

type Service struct {
	facts FactSource
	repo  Repository
	log   zerolog.Logger
}

func NewService(facts FactSource, repo Repository, logger zerolog.Logger) *Service {
	return &Service{facts: facts, repo: repo, log: logger}
}

func (s *Service) Name() string { return "readmission" }

// Refresh rebuilds the readmission table. Facts are grouped by patient
// and sorted by admission date, then each discharged stay is compared
// against the later admissions of the same patient only, so the work per
// patient is bounded by that patient's own encounter count.
func (s *Service) Refresh(ctx context.Context) (int, error) {
	facts, err := s.facts.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("readmission: list facts: %w", err)
	}

	byPatient := make(map[int64][]*consolidation.EncounterFact)
	for _, f := range facts {
		byPatient[f.PatientID] = append(byPatient[f.PatientID], f)
	}

	patientIDs := make([]int64, 0, len(byPatient))
	for id := range byPatient {
		patientIDs = append(patientIDs, id)
	}
	sort.Slice(patientIDs, func(i, j int) bool { return patientIDs[i] < patientIDs[j] })

	var pairs []*Pair
	for _, patientID := range patientIDs {
		stays := byPatient[patientID]
		sort.Slice(stays, func(i, j int) bool {
			if !stays[i].AdmissionDate.Equal(stays[j].AdmissionDate) {
				return stays[i].AdmissionDate.Before(stays[j].AdmissionDate)
			}
			return stays[i].EncounterID < stays[j].EncounterID
		})
		pairs = append(pairs, detect(stays)...)
	}

	written, err := s.repo.Replace(ctx, pairs)
	if err != nil {
		return 0, fmt.Errorf("readmission: replace pairs: %w", err)
	}

	s.log.Info().Int("rows", written).Msg("readmission rebuilt")
	return written, nil
}

// detect emits every qualifying pair among one patient's stays, which
// must already be sorted by admission date. A stay with no discharge
// never initiates a pair. Same-day returns (admission equal to the
// discharge) do not qualify; the readmission must be strictly later.
func detect(stays []*consolidation.EncounterFact) []*Pair {
	var pairs []*Pair
	for i, initial := range stays {
		if initial.DischargeDate == nil {
			continue
		}
		discharge := *initial.DischargeDate
		cutoff := discharge.AddDate(0, 0, WindowDays)

		for _, next := range stays[i+1:] {
			if next.AdmissionDate.After(cutoff) {
				break
			}
			if !next.AdmissionDate.After(discharge) {
				continue
			}
			days := int(next.AdmissionDate.Sub(discharge) / (24 * time.Hour))
			pairs = append(pairs, &Pair{
				InitialEncounterID:       initial.EncounterID,
				ReadmissionEncounterID:   next.EncounterID,
				PatientID:                initial.PatientID,
				DischargeDate:            discharge,
				ReadmissionDate:          next.AdmissionDate,
				InitialDiagnosisCode:     initial.DiagnosisCode,
				ReadmissionDiagnosisCode: next.DiagnosisCode,
				DaysBetween:              days,
				Within30Days:             true,
				Within7Days:              days <= StrictWindowDays,
			})
		}
	}
	return pairs
}
