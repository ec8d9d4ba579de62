package firstvisit

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

const visitCols = `patient_id, encounter_id, first_visit_date, physician_name, specialty, admission_type`

func (r *repoPG) Replace(ctx context.Context, visits []*FirstVisit) (int, error) {
	if db.TxFromContext(ctx) != nil {
		return r.replace(ctx, visits)
	}
	var written int
	err := db.InTx(ctx, r.pool, func(txCtx context.Context) error {
		var err error
		written, err = r.replace(txCtx, visits)
		return err
	})
	return written, err
}

func (r *repoPG) replace(ctx context.Context, visits []*FirstVisit) (int, error) {
	q := r.conn(ctx)
	if _, err := q.Exec(ctx, `DELETE FROM patient_first_visit`); err != nil {
		return 0, err
	}

	for _, v := range visits {
		_, err := q.Exec(ctx, `
			INSERT INTO patient_first_visit (`+visitCols+`)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			v.PatientID, v.EncounterID, v.FirstVisitDate,
			v.PhysicianName, v.Specialty, v.AdmissionType,
		)
		if err != nil {
			return 0, err
		}
	}
	return len(visits), nil
}

func (r *repoPG) ListAll(ctx context.Context) ([]*FirstVisit, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+visitCols+` FROM patient_first_visit ORDER BY patient_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*FirstVisit
	for rows.Next() {
		var v FirstVisit
		if err := rows.Scan(
			&v.PatientID, &v.EncounterID, &v.FirstVisitDate,
			&v.PhysicianName, &v.Specialty, &v.AdmissionType,
		); err != nil {
			return nil, err
		}
		out = append(out, &v)
	}
	return out, rows.Err()
}
