package model

import (
	"time"
)

const (
	InvoiceStatusDraft     = "draft"
	InvoiceStatusSent      = "sent"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusOverdue   = "overdue"
	InvoiceStatusCancelled = "cancelled"
)

type Invoice struct {
	ID          string     `json:"id"`
	Number      string     `json:"number" validate:"required"`
	PatientID   string     `json:"patient_id"`
	PatientName string     `json:"patient_name" validate:"required"`
	Description string     `json:"description"`
	Amount      float64    `json:"amount" validate:"gte=0"`
	Status      string     `json:"status"`
	IssuedAt    time.Time  `json:"issued_at"`
	DueDate     time.Time  `json:"due_date"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type CreateInvoiceRequest struct {
	Number      string    `json:"number"`
	PatientID   string    `json:"patient_id"`
	PatientName string    `json:"patient_name" binding:"required"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount" binding:"gte=0"`
	DueDate     time.Time `json:"due_date"`
}
