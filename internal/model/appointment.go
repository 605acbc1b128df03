package model

import (
	"time"
)

const (
	AppointmentStatusScheduled  = "scheduled"
	AppointmentStatusInProgress = "in-progress"
	AppointmentStatusCompleted  = "completed"
	AppointmentStatusCancelled  = "cancelled"
	AppointmentStatusNoShow     = "no-show"
)

type Appointment struct {
	ID              string     `db:"id" json:"id"`
	PatientID       string     `db:"patient_id" json:"patient_id" validate:"required"`
	PatientName     string     `db:"patient_name" json:"patient_name" validate:"required"`
	DoctorID        string     `db:"doctor_id" json:"doctor_id" validate:"required"`
	DoctorName      string     `db:"doctor_name" json:"doctor_name"`
	Type            string     `db:"type" json:"type" validate:"required,oneof=consultation follow-up check-up emergency procedure"`
	ScheduledAt     time.Time  `db:"scheduled_at" json:"scheduled_at" validate:"required"`
	DurationMinutes int        `db:"duration_minutes" json:"duration_minutes" validate:"gte=0"`
	Notes           string     `db:"notes" json:"notes"`
	Status          string     `db:"status" json:"status"`
	CompletedAt     *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

type CreateAppointmentRequest struct {
	PatientID       string    `json:"patient_id" binding:"required"`
	PatientName     string    `json:"patient_name" binding:"required"`
	DoctorID        string    `json:"doctor_id"`
	DoctorName      string    `json:"doctor_name"`
	Type            string    `json:"type" binding:"required"`
	ScheduledAt     time.Time `json:"scheduled_at" binding:"required"`
	DurationMinutes int       `json:"duration_minutes"`
	Notes           string    `json:"notes"`
}
