package source

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

func (r *repoPG) ListEncounters(ctx context.Context) ([]*RawEncounter, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT encounter_id, patient_id, physician_id, admission_date, discharge_date,
			admission_type_id, discharge_type_id, cost, diagnosis_code, department
		FROM encounters_raw ORDER BY encounter_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var encounters []*RawEncounter
	for rows.Next() {
		var e RawEncounter
		if err := rows.Scan(&e.EncounterID, &e.PatientID, &e.PhysicianID, &e.AdmissionDate, &e.DischargeDate,
			&e.AdmissionTypeID, &e.DischargeTypeID, &e.Cost, &e.DiagnosisCode, &e.Department); err != nil {
			return nil, err
		}
		encounters = append(encounters, &e)
	}
	return encounters, rows.Err()
}

func (r *repoPG) ListPhysicians(ctx context.Context) ([]*Physician, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT physician_id, first_name, last_name, specialty FROM physicians`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var physicians []*Physician
	for rows.Next() {
		var p Physician
		if err := rows.Scan(&p.PhysicianID, &p.FirstName, &p.LastName, &p.Specialty); err != nil {
			return nil, err
		}
		physicians = append(physicians, &p)
	}
	return physicians, rows.Err()
}

func (r *repoPG) ListPatients(ctx context.Context) ([]*Patient, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT patient_id, first_name, last_name, birth_date, gender FROM patients`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var patients []*Patient
	for rows.Next() {
		var p Patient
		if err := rows.Scan(&p.PatientID, &p.FirstName, &p.LastName, &p.BirthDate, &p.Gender); err != nil {
			return nil, err
		}
		patients = append(patients, &p)
	}
	return patients, rows.Err()
}

func (r *repoPG) ListAdmissionTypes(ctx context.Context) ([]*AdmissionType, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT admission_type_id, type_name, is_emergency FROM admission_types`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []*AdmissionType
	for rows.Next() {
		var at AdmissionType
		if err := rows.Scan(&at.AdmissionTypeID, &at.TypeName, &at.IsEmergency); err != nil {
			return nil, err
		}
		types = append(types, &at)
	}
	return types, rows.Err()
}

func (r *repoPG) ListDischargeTypes(ctx context.Context) ([]*DischargeType, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT discharge_type_id, type_name FROM discharge_types`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []*DischargeType
	for rows.Next() {
		var dt DischargeType
		if err := rows.Scan(&dt.DischargeTypeID, &dt.TypeName); err != nil {
			return nil, err
		}
		types = append(types, &dt)
	}
	return types, rows.Err()
}
