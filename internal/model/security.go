package model

import (
	"time"
)

const (
	SecurityEventOpen          = "open"
	SecurityEventInvestigating = "investigating"
	SecurityEventResolved      = "resolved"

	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

type SecurityEvent struct {
	ID          string     `json:"id"`
	Type        string     `json:"type" validate:"required,oneof=login-failure permission-change data-export suspicious-activity"`
	Severity    string     `json:"severity" validate:"required,oneof=low medium high critical"`
	Description string     `json:"description" validate:"required"`
	UserEmail   string     `json:"user_email"`
	IPAddress   string     `json:"ip_address"`
	Status      string     `json:"status"`
	OccurredAt  time.Time  `json:"occurred_at"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type CreateSecurityEventRequest struct {
	Type        string    `json:"type" binding:"required"`
	Severity    string    `json:"severity" binding:"required"`
	Description string    `json:"description" binding:"required"`
	UserEmail   string    `json:"user_email"`
	IPAddress   string    `json:"ip_address"`
	OccurredAt  time.Time `json:"occurred_at"`
}

const LogStatusRecorded = "recorded"

// LogEntry is a read-only audit/system log line.
type LogEntry struct {
	ID         string    `json:"id"`
	Level      string    `json:"level"`
	Source     string    `json:"source"`
	Message    string    `json:"message"`
	UserEmail  string    `json:"user_email"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
