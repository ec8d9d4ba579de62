package costsummary

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

const summaryCols = `month_start, admission_type, specialty, encounter_count,
	total_cost, avg_cost, min_cost, max_cost, avg_length_of_stay`

func (r *repoPG) Replace(ctx context.Context, rows []*MonthlySummary) (int, error) {
	if db.TxFromContext(ctx) != nil {
		return r.replace(ctx, rows)
	}
	var written int
	err := db.InTx(ctx, r.pool, func(txCtx context.Context) error {
		var err error
		written, err = r.replace(txCtx, rows)
		return err
	})
	return written, err
}

func (r *repoPG) replace(ctx context.Context, rows []*MonthlySummary) (int, error) {
	q := r.conn(ctx)
	if _, err := q.Exec(ctx, `DELETE FROM monthly_cost_summary`); err != nil {
		return 0, err
	}

	for _, s := range rows {
		_, err := q.Exec(ctx, `
			INSERT INTO monthly_cost_summary (`+summaryCols+`)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			s.MonthStart, s.AdmissionType, s.Specialty, s.EncounterCount,
			s.TotalCost, s.AvgCost, s.MinCost, s.MaxCost, s.AvgLengthOfStay,
		)
		if err != nil {
			return 0, err
		}
	}
	return len(rows), nil
}

func (r *repoPG) ListAll(ctx context.Context) ([]*MonthlySummary, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+summaryCols+`
		FROM monthly_cost_summary
		ORDER BY month_start, admission_type, specialty`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*MonthlySummary
	for rows.Next() {
		var s MonthlySummary
		if err := rows.Scan(
			&s.MonthStart, &s.AdmissionType, &s.Specialty, &s.EncounterCount,
			&s.TotalCost, &s.AvgCost, &s.MinCost, &s.MaxCost, &s.AvgLengthOfStay,
		); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}
