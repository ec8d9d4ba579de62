package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinmart/clinmart/internal/domain/runlog"
)

// Component is one refresh step of the mart rebuild. Refresh reads the
// full current input state and returns rows written.
type Component interface {
	Name() string
	Refresh(ctx context.Context) (int, error)
}

// Result is the outcome of one component execution within a run.
type Result struct {
	Component   string    `json:"component"`
	RowsWritten int       `json:"rows_written"`
	Status      string    `json:"status"`
	Error       string    `json:"error,omitempty"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
}

// Runner executes components sequentially in registration order, which
// is the dependency order: the consolidator first, the derived tables
// after it. A failing component stops the run; output committed by
// earlier components stays in place.
type Runner struct {
	components []Component
	runs       runlog.Repository
	log        zerolog.Logger
}

func NewRunner(runs runlog.Repository, logger zerolog.Logger, components ...Component) *Runner {
	return &Runner{components: components, runs: runs, log: logger}
}

// Components returns the registered component names in execution order.
func (r *Runner) Components() []string {
	names := make([]string, len(r.components))
	for i, c := range r.components {
		names[i] = c.Name()
	}
	return names
}

// RunAll refreshes every component in order and stops at the first
// failure. The returned results cover only the components that ran.
func (r *Runner) RunAll(ctx context.Context) ([]Result, error) {
	results := make([]Result, 0, len(r.components))
	for _, c := range r.components {
		res := r.runOne(ctx, c)
		results = append(results, res)
		if res.Status == runlog.StatusFailed {
			return results, fmt.Errorf("pipeline: component %s failed: %s", res.Component, res.Error)
		}
	}
	return results, nil
}

// RunComponent refreshes a single component by name.
func (r *Runner) RunComponent(ctx context.Context, name string) (Result, error) {
	for _, c := range r.components {
		if c.Name() != name {
			continue
		}
		res := r.runOne(ctx, c)
		if res.Status == runlog.StatusFailed {
			return res, fmt.Errorf("pipeline: component %s failed: %s", res.Component, res.Error)
		}
		return res, nil
	}
	return Result{}, fmt.Errorf("pipeline: unknown component %q", name)
}

func (r *Runner) runOne(ctx context.Context, c Component) Result {
	started := time.Now().UTC()
	r.log.Info().Str("component", c.Name()).Msg("refresh started")

	rows, err := c.Refresh(ctx)
	finished := time.Now().UTC()

	res := Result{
		Component:   c.Name(),
		RowsWritten: rows,
		Status:      runlog.StatusSucceeded,
		StartedAt:   started,
		FinishedAt:  finished,
	}
	if err != nil {
		res.Status = runlog.StatusFailed
		res.Error = err.Error()
		res.RowsWritten = 0
		r.log.Error().Err(err).Str("component", c.Name()).Msg("refresh failed")
	} else {
		r.log.Info().
			Str("component", c.Name()).
			Int("rows", rows).
			Dur("took", finished.Sub(started)).
			Msg("refresh finished")
	}

	rec := &runlog.RunRecord{
		ID:          uuid.New(),
		Component:   res.Component,
		RowsWritten: res.RowsWritten,
		Status:      res.Status,
		Error:       res.Error,
		StartedAt:   res.StartedAt,
		FinishedAt:  res.FinishedAt,
	}
	if err := r.runs.Insert(ctx, rec); err != nil {
		// The audit row is best effort; the refresh outcome stands.
		r.log.Error().Err(err).Str("component", c.Name()).Msg("run record insert failed")
	}

	return res
}
