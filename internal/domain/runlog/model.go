package runlog

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// RunRecord maps to the refresh_run table: one row per component
// execution, successful or not. Error is empty on success.
type RunRecord struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Component   string    `db:"component" json:"component"`
	RowsWritten int       `db:"rows_written" json:"rows_written"`
	Status      string    `db:"status" json:"status"`
	Error       string    `db:"error" json:"error,omitempty"`
	StartedAt   time.Time `db:"started_at" json:"started_at"`
	FinishedAt  time.Time `db:"finished_at" json:"finished_at"`
}
