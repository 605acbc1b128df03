package model

import (
	"time"
)

const (
	StaffStatusActive   = "active"
	StaffStatusOnLeave  = "on-leave"
	StaffStatusInactive = "inactive"
)

type StaffMember struct {
	ID         string    `json:"id"`
	Name       string    `json:"name" validate:"required"`
	Email      string    `json:"email" validate:"required,email"`
	Phone      string    `json:"phone"`
	RoleTitle  string    `json:"role_title"`
	Department string    `json:"department" validate:"required"`
	Status     string    `json:"status"`
	HiredAt    time.Time `json:"hired_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type CreateStaffRequest struct {
	Name       string    `json:"name" binding:"required"`
	Email      string    `json:"email" binding:"required,email"`
	Phone      string    `json:"phone"`
	RoleTitle  string    `json:"role_title"`
	Department string    `json:"department" binding:"required"`
	HiredAt    time.Time `json:"hired_at"`
}
