package consolidation

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

const factCols = `encounter_id, patient_id, physician_name, physician_specialty,
	admission_date, discharge_date, length_of_stay_days,
	admission_type, discharge_type, is_emergency,
	patient_age, age_group, department, diagnosis_code, cost`

func (r *repoPG) Replace(ctx context.Context, facts []*EncounterFact) (int, error) {
	if db.TxFromContext(ctx) != nil {
		return r.replace(ctx, facts)
	}
	var written int
	err := db.InTx(ctx, r.pool, func(txCtx context.Context) error {
		var err error
		written, err = r.replace(txCtx, facts)
		return err
	})
	return written, err
}

func (r *repoPG) replace(ctx context.Context, facts []*EncounterFact) (int, error) {
	q := r.conn(ctx)
	if _, err := q.Exec(ctx, `DELETE FROM encounter_fact`); err != nil {
		return 0, err
	}

	for _, f := range facts {
		_, err := q.Exec(ctx, `
			INSERT INTO encounter_fact (`+factCols+`)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
			f.EncounterID, f.PatientID, f.PhysicianName, f.PhysicianSpecialty,
			f.AdmissionDate, f.DischargeDate, f.LengthOfStayDays,
			f.AdmissionType, f.DischargeType, f.IsEmergency,
			f.PatientAge, f.AgeGroup, f.Department, f.DiagnosisCode, f.Cost,
		)
		if err != nil {
			return 0, err
		}
	}
	return len(facts), nil
}

func (r *repoPG) ListAll(ctx context.Context) ([]*EncounterFact, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+factCols+` FROM encounter_fact ORDER BY encounter_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var facts []*EncounterFact
	for rows.Next() {
		var f EncounterFact
		if err := rows.Scan(
			&f.EncounterID, &f.PatientID, &f.PhysicianName, &f.PhysicianSpecialty,
			&f.AdmissionDate, &f.DischargeDate, &f.LengthOfStayDays,
			&f.AdmissionType, &f.DischargeType, &f.IsEmergency,
			&f.PatientAge, &f.AgeGroup, &f.Department, &f.DiagnosisCode, &f.Cost,
		); err != nil {
			return nil, err
		}
		facts = append(facts, &f)
	}
	return facts, rows.Err()
}
