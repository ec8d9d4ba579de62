package deptpivot

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

func (s *Service) Name() string { return "department_pivot" }

// Refresh rebuilds the pivot for every month present in the fact table.
func (s *Service) Refresh(ctx context.Context) (int, error) {
	return s.RefreshMonths(ctx, nil)
}

// RefreshMonths rebuilds the pivot for the given report months only;
// rows for months outside the set are left as they are. A nil or empty
// set means every month present in the fact table. A requested month
// with no encounters ends up with no row.
func (s *Service) RefreshMonths(ctx context.Context, months []time.Time) (int, error) {
	facts, err := s.facts.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("department_pivot: list facts: %w", err)
	}

	requested := make(map[time.Time]bool, len(months))
	for _, m := range months {
		requested[MonthStart(m)] = true
	}

	byMonth := make(map[time.Time]*PivotRow)
	for _, f := range facts {
		month := MonthStart(f.AdmissionDate)
		if len(requested) > 0 && !requested[month] {
			continue
		}
		row, ok := byMonth[month]
		if !ok {
			row = &PivotRow{MonthStart: month}
			byMonth[month] = row
		}
		row.add(f.PhysicianSpecialty)
	}

	var scope []time.Time
	if len(requested) > 0 {
		scope = make([]time.Time, 0, len(requested))
		for m := range requested {
			scope = append(scope, m)
		}
	} else {
		scope = make([]time.Time, 0, len(byMonth))
		for m := range byMonth {
			scope = append(scope, m)
		}
	}
	sort.Slice(scope, func(i, j int) bool { return scope[i].Before(scope[j]) })

	rows := make([]*PivotRow, 0, len(byMonth))
	for _, row := range byMonth {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].MonthStart.Before(rows[j].MonthStart) })

	written, err := s.repo.ReplaceMonths(ctx, scope, rows)
	if err != nil {
		return 0, fmt.Errorf("department_pivot: replace months: %w", err)
	}

	s.log.Info().
		Int("rows", written).
		Int("months", len(scope)).
		Msg("department_monthly_pivot rebuilt")
	return written, nil
}
