package model

import (
	"time"
)

const (
	PatientStatusActive   = "active"
	PatientStatusInactive = "inactive"
)

type Patient struct {
	ID               string     `db:"id" json:"id"`
	FirstName        string     `db:"first_name" json:"first_name" validate:"required"`
	LastName         string     `db:"last_name" json:"last_name" validate:"required"`
	Email            string     `db:"email" json:"email" validate:"omitempty,email"`
	Phone            string     `db:"phone" json:"phone"`
	DateOfBirth      *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Gender           string     `db:"gender" json:"gender" validate:"omitempty,oneof=male female other"`
	Address          string     `db:"address" json:"address"`
	AssignedDoctorID *string    `db:"assigned_doctor_id" json:"assigned_doctor_id,omitempty"`
	Notes            string     `db:"notes" json:"notes"`
	Status           string     `db:"status" json:"status"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

func (p Patient) FullName() string {
	return p.FirstName + " " + p.LastName
}

type CreatePatientRequest struct {
	FirstName        string     `json:"first_name" binding:"required"`
	LastName         string     `json:"last_name" binding:"required"`
	Email            string     `json:"email" binding:"omitempty,email"`
	Phone            string     `json:"phone"`
	DateOfBirth      *time.Time `json:"date_of_birth"`
	Gender           string     `json:"gender"`
	Address          string     `json:"address"`
	AssignedDoctorID *string    `json:"assigned_doctor_id"`
	Notes            string     `json:"notes"`
}
