package firstvisit

import "context"

// Repository persists the first-visit cohort. Replace discards all
// existing rows and writes the given set atomically.
type Repository interface {
	Replace(ctx context.Context, visits []*FirstVisit) (int, error)
	ListAll(ctx context.Context) ([]*FirstVisit, error)
}
