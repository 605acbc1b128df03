package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/practice-dashboard/internal/model"
	"github.com/jwalitptl/practice-dashboard/internal/repository"
	"github.com/jwalitptl/practice-dashboard/pkg/listctl"
)

type patientRepository struct {
	db *sqlx.DB
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{db: db}
}

func (r *patientRepository) List(ctx context.Context) ([]model.Patient, error) {
	var patients []model.Patient
	if err := r.db.SelectContext(ctx, &patients, `SELECT * FROM patients ORDER BY created_at DESC`); err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

func (r *patientRepository) Get(ctx context.Context, id string) (*model.Patient, error) {
	var patient model.Patient
	if err := r.db.GetContext(ctx, &patient, `SELECT * FROM patients WHERE id = $1`, id); err != nil {
		return nil, notFound(err)
	}
	return &patient, nil
}

func (r *patientRepository) Create(ctx context.Context, p model.Patient) (model.Patient, error) {
	now := dbNow()
	p.ID = uuid.NewString()
	p.CreatedAt, p.UpdatedAt = now, now

	query := `
		INSERT INTO patients (
			id, first_name, last_name, email, phone, date_of_birth, gender,
			address, assigned_doctor_id, notes, status, created_at, updated_at
		) VALUES (
			:id, :first_name, :last_name, :email, :phone, :date_of_birth, :gender,
			:address, :assigned_doctor_id, :notes, :status, :created_at, :updated_at
		)`
	if _, err := r.db.NamedExecContext(ctx, query, p); err != nil {
		return model.Patient{}, fmt.Errorf("failed to create patient: %w", err)
	}
	return p, nil
}

func (r *patientRepository) Update(ctx context.Context, p model.Patient, expect listctl.Expect) (model.Patient, error) {
	p.UpdatedAt = dbNow()
	query := `
		UPDATE patients SET
			first_name = :first_name, last_name = :last_name, email = :email,
			phone = :phone, date_of_birth = :date_of_birth, gender = :gender,
			address = :address, assigned_doctor_id = :assigned_doctor_id,
			notes = :notes, status = :status, updated_at = :updated_at
		WHERE id = :id` + guardClause(expect)
	arg := struct {
		model.Patient
		guarded
	}{p, guardOf(expect)}
	res, err := r.db.NamedExecContext(ctx, query, arg)
	if err != nil {
		return model.Patient{}, fmt.Errorf("failed to update patient: %w", err)
	}
	if err := mustAffectGuarded(ctx, r.db, res, "patients", p.ID); err != nil {
		return model.Patient{}, err
	}
	return p, nil
}

func (r *patientRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	return mustAffect(res)
}
