package deptpivot

import (
	"context"
	"time"
)

// Repository persists the department pivot. ReplaceMonths deletes only
// the given months' rows and writes the new rows in the same atomic
// unit; rows for other months are left untouched.
type Repository interface {
	ReplaceMonths(ctx context.Context, months []time.Time, rows []*PivotRow) (int, error)
	ListAll(ctx context.Context) ([]*PivotRow, error)
}
