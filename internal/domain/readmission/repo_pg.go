package readmission

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

const pairCols = `initial_encounter_id, readmission_encounter_id, patient_id,
	discharge_date, readmission_date, initial_diagnosis_code,
	readmission_diagnosis_code, days_between, within_30_days, within_7_days`

func (r *repoPG) Replace(ctx context.Context, pairs []*Pair) (int, error) {
	if db.TxFromContext(ctx) != nil {
		return r.replace(ctx, pairs)
	}
	var written int
	err := db.InTx(ctx, r.pool, func(txCtx context.Context) error {
		var err error
		written, err = r.replace(txCtx, pairs)
		return err
	})
	return written, err
}

func (r *repoPG) replace(ctx context.Context, pairs []*Pair) (int, error) {
	q := r.conn(ctx)
	if _, err := q.Exec(ctx, `DELETE FROM readmission`); err != nil {
		return 0, err
	}

	for _, p := range pairs {
		_, err := q.Exec(ctx, `
			INSERT INTO readmission (`+pairCols+`)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
			p.InitialEncounterID, p.ReadmissionEncounterID, p.PatientID,
			p.DischargeDate, p.ReadmissionDate, p.InitialDiagnosisCode,
			p.ReadmissionDiagnosisCode, p.DaysBetween, p.Within30Days, p.Within7Days,
		)
		if err != nil {
			return 0, err
		}
	}
	return len(pairs), nil
}

func (r *repoPG) ListAll(ctx context.Context) ([]*Pair, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+pairCols+`
		FROM readmission
		ORDER BY patient_id, initial_encounter_id, readmission_encounter_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Pair
	for rows.Next() {
		var p Pair
		if err := rows.Scan(
			&p.InitialEncounterID, &p.ReadmissionEncounterID, &p.PatientID,
			&p.DischargeDate, &p.ReadmissionDate, &p.InitialDiagnosisCode,
			&p.ReadmissionDiagnosisCode, &p.DaysBetween, &p.Within30Days, &p.Within7Days,
		); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}
