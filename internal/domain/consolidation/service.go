package consolidation

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/clinmart/clinmart/internal/domain/source"
)

type Service struct {
	source source.Repository
	repo   Repository
	log    zerolog.Logger
}

func NewService(src source.Repository, repo Repository, logger zerolog.Logger) *Service {
	return &Service{source: src, repo: repo, log: logger}
}

func (s *Service) Name() string { return "consolidation" }

// Refresh rebuilds the encounter_fact table from the full raw snapshot.
// Every raw encounter yields exactly one fact row; dimension misses fall
// back to sentinel labels, while a missing patient aborts the run.
func (s *Service) Refresh(ctx context.Context) (int, error) {
	encounters, err := s.source.ListEncounters(ctx)
	if err != nil {
		return 0, fmt.Errorf("consolidation: list encounters: %w", err)
	}

	physicians, err := s.source.ListPhysicians(ctx)
	if err != nil {
		return 0, fmt.Errorf("consolidation: list physicians: %w", err)
	}
	patients, err := s.source.ListPatients(ctx)
	if err != nil {
		return 0, fmt.Errorf("consolidation: list patients: %w", err)
	}
	admTypes, err := s.source.ListAdmissionTypes(ctx)
	if err != nil {
		return 0, fmt.Errorf("consolidation: list admission types: %w", err)
	}
	disTypes, err := s.source.ListDischargeTypes(ctx)
	if err != nil {
		return 0, fmt.Errorf("consolidation: list discharge types: %w", err)
	}

	physByID := make(map[int64]*source.Physician, len(physicians))
	for _, p := range physicians {
		physByID[p.PhysicianID] = p
	}
	patByID := make(map[int64]*source.Patient, len(patients))
	for _, p := range patients {
		patByID[p.PatientID] = p
	}
	admByID := make(map[int64]*source.AdmissionType, len(admTypes))
	for _, at := range admTypes {
		admByID[at.AdmissionTypeID] = at
	}
	disByID := make(map[int64]*source.DischargeType, len(disTypes))
	for _, dt := range disTypes {
		disByID[dt.DischargeTypeID] = dt
	}

	facts := make([]*EncounterFact, 0, len(encounters))
	for _, ev := range encounters {
		patient, ok := patByID[ev.PatientID]
		if !ok {
			return 0, fmt.Errorf("consolidation: encounter %d references unknown patient %d",
				ev.EncounterID, ev.PatientID)
		}

		var physician *source.Physician
		if ev.PhysicianID != nil {
			physician = physByID[*ev.PhysicianID]
		}
		var admType *source.AdmissionType
		if ev.AdmissionTypeID != nil {
			admType = admByID[*ev.AdmissionTypeID]
		}
		var disType *source.DischargeType
		if ev.DischargeTypeID != nil {
			disType = disByID[*ev.DischargeTypeID]
		}

		fact := BuildFact(ev, patient, physician, admType, disType)

		// Malformed intervals pass through unchanged; surface them so
		// data-quality work can find the upstream rows.
		if fact.DischargeDate != nil && fact.DischargeDate.Before(fact.AdmissionDate) {
			s.log.Warn().
				Int64("encounter_id", fact.EncounterID).
				Time("admission_date", fact.AdmissionDate).
				Time("discharge_date", *fact.DischargeDate).
				Msg("discharge precedes admission")
		}

		facts = append(facts, fact)
	}

	written, err := s.repo.Replace(ctx, facts)
	if err != nil {
		return 0, fmt.Errorf("consolidation: replace facts: %w", err)
	}

	s.log.Info().Int("rows", written).Msg("encounter_fact rebuilt")
	return written, nil
}
