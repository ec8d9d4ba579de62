package runlog

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinmart/clinmart/internal/platform/db"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func (r *repoPG) conn(ctx context.Context) querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

func (r *repoPG) Insert(ctx context.Context, rec *RunRecord) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO refresh_run (id, component, rows_written, status, error, started_at, finished_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		rec.ID, rec.Component, rec.RowsWritten, rec.Status, rec.Error,
		rec.StartedAt, rec.FinishedAt,
	)
	return err
}

func (r *repoPG) ListRecent(ctx context.Context, limit int) ([]*RunRecord, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, component, rows_written, status, error, started_at, finished_at
		FROM refresh_run
		ORDER BY started_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*RunRecord
	for rows.Next() {
		var rec RunRecord
		if err := rows.Scan(
			&rec.ID, &rec.Component, &rec.RowsWritten, &rec.Status, &rec.Error,
			&rec.StartedAt, &rec.FinishedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}
