// Package resource declares every dashboard list resource: which fields are
// searched, which filters exist, how statuses move and what statistics are
// shown above the list.
package resource

import (
	"strings"
	"time"

	"github.com/jwalitptl/practice-dashboard/internal/model"
	"github.com/jwalitptl/practice-dashboard/pkg/listctl"
)

// Names of the list resources, also used as route segments and policy objects.
const (
	Patients       = "patients"
	Appointments   = "appointments"
	Invoices       = "invoices"
	Staff          = "staff"
	Products       = "products"
	Suppliers      = "suppliers"
	Workflows      = "workflows"
	SecurityEvents = "security-events"
	Logs           = "logs"
	Messages       = "messages"

	// Record resources hang off patients and conversations.
	MedicalNotes  = "medical-notes"
	PatientFiles  = "patient-files"
	Conversations = "conversations"
)

// Definition binds a list schema to the request payload that creates entities.
type Definition[T any, In any] struct {
	Schema listctl.Schema[T]

	// Build turns a create request into a draft entity on behalf of actor.
	Build func(in In, actor *model.Profile, now time.Time) T

	// AdminOnly marks pages that only admins may open.
	AdminOnly bool
}

func (d Definition[T, In]) Name() string { return d.Schema.Name }

func defaultString(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
