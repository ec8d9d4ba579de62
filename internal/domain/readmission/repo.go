package readmission

import "context"

// Repository persists the readmission pairs. Replace discards all
// existing rows and writes the given set atomically.
type Repository interface {
	Replace(ctx context.Context, pairs []*Pair) (int, error)
	ListAll(ctx context.Context) ([]*Pair, error)
}
