package costsummary

import (
	"context"
	"fmt"
	"sort"
	"time"

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

func (s *Service) Name() string { return "cost_summary" }

type groupKey struct {
	month         time.Time
	admissionType string
	specialty     string
}

type accumulator struct {
	count    int
	total    float64
	min      float64
	max      float64
	losSum   int
	losCount int
}

// Refresh rebuilds monthly_cost_summary from the consolidated facts.
// Facts without a recorded cost carry no spend signal and are left out
// of every group, including the encounter count.
func (s *Service) Refresh(ctx context.Context) (int, error) {
	facts, err := s.facts.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("cost_summary: list facts: %w", err)
	}

	groups := make(map[groupKey]*accumulator)
	var skipped int
	for _, f := range facts {
		if f.Cost == nil {
			skipped++
			continue
		}
		key := groupKey{
			month:         MonthStart(f.AdmissionDate),
			admissionType: f.AdmissionType,
			specialty:     f.PhysicianSpecialty,
		}
		acc, ok := groups[key]
		if !ok {
			acc = &accumulator{min: *f.Cost, max: *f.Cost}
			groups[key] = acc
		}
		acc.count++
		acc.total += *f.Cost
		if *f.Cost < acc.min {
			acc.min = *f.Cost
		}
		if *f.Cost > acc.max {
			acc.max = *f.Cost
		}
		if f.LengthOfStayDays != nil {
			acc.losSum += *f.LengthOfStayDays
			acc.losCount++
		}
	}

	summaries := make([]*MonthlySummary, 0, len(groups))
	for key, acc := range groups {
		row := &MonthlySummary{
			MonthStart:     key.month,
			AdmissionType:  key.admissionType,
			Specialty:      key.specialty,
			EncounterCount: acc.count,
			TotalCost:      acc.total,
			AvgCost:        round2(acc.total / float64(acc.count)),
			MinCost:        acc.min,
			MaxCost:        acc.max,
		}
		if acc.losCount > 0 {
			avgLOS := round1(float64(acc.losSum) / float64(acc.losCount))
			row.AvgLengthOfStay = &avgLOS
		}
		summaries = append(summaries, row)
	}

	// Deterministic insert order keeps reruns byte-for-byte comparable.
	sort.Slice(summaries, func(i, j int) bool {
		a, b := summaries[i], summaries[j]
		if !a.MonthStart.Equal(b.MonthStart) {
			return a.MonthStart.Before(b.MonthStart)
		}
		if a.AdmissionType != b.AdmissionType {
			return a.AdmissionType < b.AdmissionType
		}
		return a.Specialty < b.Specialty
	})

	written, err := s.repo.Replace(ctx, summaries)
	if err != nil {
		return 0, fmt.Errorf("cost_summary: replace summaries: %w", err)
	}

	s.log.Info().
		Int("rows", written).
		Int("uncosted_skipped", skipped).
		Msg("monthly_cost_summary rebuilt")
	return written, nil
}
