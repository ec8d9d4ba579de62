package firstvisit

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/clinmart/clinmart/internal/domain/consolidation"
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

func (s *Service) Name() string { return "first_visit" }

// Refresh rebuilds patient_first_visit: the earliest fact per patient,
// ties on admission date broken by the lower encounter id.
func (s *Service) Refresh(ctx context.Context) (int, error) {
	facts, err := s.facts.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("first_visit: list facts: %w", err)
	}

	earliest := make(map[int64]*consolidation.EncounterFact)
	for _, f := range facts {
		cur, ok := earliest[f.PatientID]
		if !ok {
			earliest[f.PatientID] = f
			continue
		}
		if f.AdmissionDate.Before(cur.AdmissionDate) ||
			(f.AdmissionDate.Equal(cur.AdmissionDate) && f.EncounterID < cur.EncounterID) {
			earliest[f.PatientID] = f
		}
	}

	visits := make([]*FirstVisit, 0, len(earliest))
	for patientID, f := range earliest {
		visits = append(visits, &FirstVisit{
			PatientID:      patientID,
			EncounterID:    f.EncounterID,
			FirstVisitDate: f.AdmissionDate,
			PhysicianName:  f.PhysicianName,
			Specialty:      f.PhysicianSpecialty,
			AdmissionType:  f.AdmissionType,
		})
	}
	sort.Slice(visits, func(i, j int) bool { return visits[i].PatientID < visits[j].PatientID })

	written, err := s.repo.Replace(ctx, visits)
	if err != nil {
		return 0, fmt.Errorf("first_visit: replace visits: %w", err)
	}

	s.log.Info().Int("rows", written).Msg("patient_first_visit rebuilt")
	return written, nil
}
