package deptpivot

import (
	"context"
	"time"

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

const pivotCols = `month_start, cardiology_count, neurology_count, orthopedics_count,
	pediatrics_count, oncology_count, other_count, total_count`

func (r *repoPG) ReplaceMonths(ctx context.Context, months []time.Time, rows []*PivotRow) (int, error) {
	if db.TxFromContext(ctx) != nil {
		return r.replaceMonths(ctx, months, rows)
	}
	var written int
	err := db.InTx(ctx, r.pool, func(txCtx context.Context) error {
		var err error
		written, err = r.replaceMonths(txCtx, months, rows)
		return err
	})
	return written, err
}

func (r *repoPG) replaceMonths(ctx context.Context, months []time.Time, rows []*PivotRow) (int, error) {
	q := r.conn(ctx)
	if _, err := q.Exec(ctx, `DELETE FROM department_monthly_pivot WHERE month_start = ANY($1::date[])`, months); err != nil {
		return 0, err
	}

	for _, row := range rows {
		_, err := q.Exec(ctx, `
			INSERT INTO department_monthly_pivot (`+pivotCols+`)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			row.MonthStart, row.CardiologyCount, row.NeurologyCount, row.OrthopedicsCount,
			row.PediatricsCount, row.OncologyCount, row.OtherCount, row.TotalCount,
		)
		if err != nil {
			return 0, err
		}
	}
	return len(rows), nil
}

func (r *repoPG) ListAll(ctx context.Context) ([]*PivotRow, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+pivotCols+` FROM department_monthly_pivot ORDER BY month_start`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*PivotRow
	for rows.Next() {
		var row PivotRow
		if err := rows.Scan(
			&row.MonthStart, &row.CardiologyCount, &row.NeurologyCount, &row.OrthopedicsCount,
			&row.PediatricsCount, &row.OncologyCount, &row.OtherCount, &row.TotalCount,
		); err != nil {
			return nil, err
		}
		out = append(out, &row)
	}
	return out, rows.Err()
}
