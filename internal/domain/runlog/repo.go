package runlog

import "context"

// Repository appends and reads refresh audit rows.
type Repository interface {
	Insert(ctx context.Context, rec *RunRecord) error
	ListRecent(ctx context.Context, limit int) ([]*RunRecord, error)
}
