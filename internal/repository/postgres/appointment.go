package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/practice-dashboard/internal/model"
	"github.com/jwalitptl/practice-dashboard/internal/repository"
	"github.com/jwalitptl/practice-dashboard/internal/resource"
	"github.com/jwalitptl/practice-dashboard/pkg/listctl"
	"github.com/jwalitptl/practice-dashboard/pkg/reqctx"
)

type appointmentRepository struct {
	db *sqlx.DB
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}

// List returns the doctor's own appointments for doctors and everything
// for other roles.
func (r *appointmentRepository) List(ctx context.Context) ([]model.Appointment, error) {
	query := `SELECT * FROM appointments`
	var args []interface{}
	if p, ok := reqctx.PrincipalFromContext(ctx); ok && resource.ScopedToParticipant(resource.Appointments, model.Role(p.Role)) {
		query += ` WHERE doctor_id = $1`
		args = append(args, p.UserID)
	}
	query += ` ORDER BY created_at DESC`

	var appointments []model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) Create(ctx context.Context, a model.Appointment) (model.Appointment, error) {
	now := dbNow()
	a.ID = uuid.NewString()
	a.CreatedAt, a.UpdatedAt = now, now

	query := `
		INSERT INTO appointments (
			id, patient_id, patient_name, doctor_id, doctor_name, type, scheduled_at,
			duration_minutes, notes, status, completed_at, created_at, updated_at
		) VALUES (
			:id, :patient_id, :patient_name, :doctor_id, :doctor_name, :type, :scheduled_at,
			:duration_minutes, :notes, :status, :completed_at, :created_at, :updated_at
		)`
	if _, err := r.db.NamedExecContext(ctx, query, a); err != nil {
		return model.Appointment{}, fmt.Errorf("failed to create appointment: %w", err)
	}
	return a, nil
}

func (r *appointmentRepository) Update(ctx context.Context, a model.Appointment, expect listctl.Expect) (model.Appointment, error) {
	a.UpdatedAt = dbNow()
	query := `
		UPDATE appointments SET
			doctor_id = :doctor_id, doctor_name = :doctor_name, type = :type,
			scheduled_at = :scheduled_at, duration_minutes = :duration_minutes,
			notes = :notes, status = :status, completed_at = :completed_at,
			updated_at = :updated_at
		WHERE id = :id` + guardClause(expect)
	arg := struct {
		model.Appointment
		guarded
	}{a, guardOf(expect)}
	res, err := r.db.NamedExecContext(ctx, query, arg)
	if err != nil {
		return model.Appointment{}, fmt.Errorf("failed to update appointment: %w", err)
	}
	if err := mustAffectGuarded(ctx, r.db, res, "appointments", a.ID); err != nil {
		return model.Appointment{}, err
	}
	return a, nil
}

func (r *appointmentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	return mustAffect(res)
}
