package costsummary

import "context"

// Repository persists the monthly cost summary. Replace discards all
// existing rows and writes the given set atomically.
type Repository interface {
	Replace(ctx context.Context, rows []*MonthlySummary) (int, error)
	ListAll(ctx context.Context) ([]*MonthlySummary, error)
}
