// Package fixtures generates deterministic sample data for the memory-backed
// pages and for the seed command. The same seed always yields the same data.
package fixtures

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/practice-dashboard/internal/model"
)

var (
	firstNames  = []string{"John", "Jane", "Amara", "Luis", "Mei", "Omar", "Sofia", "Kwame", "Anna", "Ravi", "Elena", "Tomas"}
	lastNames   = []string{"Doe", "Smith", "Patel", "Garcia", "Chen", "Haddad", "Rossi", "Mensah", "Novak", "Iyer", "Petrova", "Silva"}
	departments = []string{"Cardiology", "Pediatrics", "Front Desk", "Billing", "Radiology", "General Practice"}
	roleTitles  = []string{"Nurse", "Receptionist", "Physician Assistant", "Billing Specialist", "Technician"}
	categories  = []string{"consumables", "medication", "equipment", "diagnostics"}
	logSources  = []string{"auth", "billing", "scheduler", "api", "inventory"}
	logLevels   = []string{"info", "info", "info", "warn", "error"}
)

// Generator draws from a seeded PCG source.
type Generator struct {
	rnd *rand.Rand
	now time.Time
	// ns keeps ids stable for a seed.
	ns uuid.UUID
}

func New(seed uint64, now time.Time) *Generator {
	return &Generator{
		rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		now: now.UTC(),
		ns:  uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("dashboard-fixtures-%d", seed))),
	}
}

func (g *Generator) id(kind string, i int) string {
	return uuid.NewSHA1(g.ns, []byte(fmt.Sprintf("%s-%d", kind, i))).String()
}

func pick[T any](g *Generator, items []T) T {
	return items[g.rnd.IntN(len(items))]
}

func (g *Generator) name() (string, string) {
	return pick(g, firstNames), pick(g, lastNames)
}

func (g *Generator) daysAgo(max int) time.Time {
	return g.now.Add(-time.Duration(g.rnd.IntN(max*24)) * time.Hour)
}

func emailFor(first, last string) string {
	return strings.ToLower(first+"."+last) + "@example.com"
}

func (g *Generator) Patients(n int) []model.Patient {
	out := make([]model.Patient, n)
	for i := range out {
		first, last := g.name()
		created := g.daysAgo(120)
		status := model.PatientStatusActive
		if g.rnd.IntN(5) == 0 {
			status = model.PatientStatusInactive
		}
		out[i] = model.Patient{
			ID:        g.id("patient", i),
			FirstName: first,
			LastName:  last,
			Email:     emailFor(first, last),
			Phone:     fmt.Sprintf("+1-555-%04d", g.rnd.IntN(10000)),
			Gender:    pick(g, []string{"male", "female", "other"}),
			Status:    status,
			CreatedAt: created,
			UpdatedAt: created,
		}
	}
	return out
}

// Appointments books the given patients with doctorID.
func (g *Generator) Appointments(patients []model.Patient, doctorID, doctorName string) []model.Appointment {
	statuses := []string{
		model.AppointmentStatusScheduled, model.AppointmentStatusScheduled,
		model.AppointmentStatusInProgress, model.AppointmentStatusCompleted,
		model.AppointmentStatusCancelled, model.AppointmentStatusNoShow,
	}
	out := make([]model.Appointment, len(patients))
	for i, p := range patients {
		at := g.now.Add(time.Duration(g.rnd.IntN(14*24)-7*24) * time.Hour).Truncate(time.Hour)
		a := model.Appointment{
			ID:              g.id("appointment", i),
			PatientID:       p.ID,
			PatientName:     p.FullName(),
			DoctorID:        doctorID,
			DoctorName:      doctorName,
			Type:            pick(g, []string{"consultation", "follow-up", "check-up", "procedure"}),
			ScheduledAt:     at,
			DurationMinutes: pick(g, []int{15, 30, 45, 60}),
			Status:          pick(g, statuses),
			CreatedAt:       at.Add(-72 * time.Hour),
			UpdatedAt:       at.Add(-72 * time.Hour),
		}
		if a.Status == model.AppointmentStatusCompleted {
			done := at.Add(time.Duration(a.DurationMinutes) * time.Minute)
			a.CompletedAt = &done
		}
		out[i] = a
	}
	return out
}

func (g *Generator) Invoices(n int) []model.Invoice {
	statuses := []string{
		model.InvoiceStatusDraft, model.InvoiceStatusSent, model.InvoiceStatusPaid,
		model.InvoiceStatusPaid, model.InvoiceStatusOverdue, model.InvoiceStatusCancelled,
	}
	out := make([]model.Invoice, n)
	for i := range out {
		first, last := g.name()
		issued := g.daysAgo(90)
		inv := model.Invoice{
			ID:          g.id("invoice", i),
			Number:      fmt.Sprintf("INV-%s-%06d", issued.Format("20060102"), g.rnd.IntN(1000000)),
			PatientName: first + " " + last,
			Description: pick(g, []string{"Consultation", "Lab panel", "X-ray", "Follow-up visit", "Vaccination"}),
			Amount:      float64(25+g.rnd.IntN(475)) + float64(g.rnd.IntN(100))/100,
			Status:      pick(g, statuses),
			IssuedAt:    issued,
			DueDate:     issued.Add(30 * 24 * time.Hour),
			CreatedAt:   issued,
			UpdatedAt:   issued,
		}
		if inv.Status == model.InvoiceStatusPaid {
			paid := issued.Add(time.Duration(1+g.rnd.IntN(20)) * 24 * time.Hour)
			inv.PaidAt = &paid
		}
		out[i] = inv
	}
	return out
}

func (g *Generator) Staff(n int) []model.StaffMember {
	statuses := []string{model.StaffStatusActive, model.StaffStatusActive, model.StaffStatusActive, model.StaffStatusOnLeave, model.StaffStatusInactive}
	out := make([]model.StaffMember, n)
	for i := range out {
		first, last := g.name()
		hired := g.daysAgo(2000)
		out[i] = model.StaffMember{
			ID:         g.id("staff", i),
			Name:       first + " " + last,
			Email:      emailFor(first, last),
			Phone:      fmt.Sprintf("+1-555-%04d", g.rnd.IntN(10000)),
			RoleTitle:  pick(g, roleTitles),
			Department: pick(g, departments),
			Status:     pick(g, statuses),
			HiredAt:    hired,
			CreatedAt:  hired,
			UpdatedAt:  hired,
		}
	}
	return out
}

func (g *Generator) Suppliers(n int) []model.Supplier {
	names := []string{"MedSupply Co", "CareSource", "Northwind Medical", "BioLab Direct", "Apex Surgical", "PharmaLink"}
	out := make([]model.Supplier, n)
	for i := range out {
		first, last := g.name()
		created := g.daysAgo(400)
		name := names[i%len(names)]
		status := model.SupplierStatusActive
		if g.rnd.IntN(4) == 0 {
			status = model.SupplierStatusInactive
		}
		out[i] = model.Supplier{
			ID:          g.id("supplier", i),
			Name:        name,
			ContactName: first + " " + last,
			Email:       "orders@" + strings.ReplaceAll(strings.ToLower(name), " ", "") + ".example.com",
			Phone:       fmt.Sprintf("+1-555-%04d", g.rnd.IntN(10000)),
			Status:      status,
			CreatedAt:   created,
			UpdatedAt:   created,
		}
	}
	return out
}

func (g *Generator) Products(n int, suppliers []model.Supplier) []model.Product {
	items := []string{"Nitrile gloves", "Surgical masks", "Syringes 5ml", "Gauze pads", "Amoxicillin 500mg", "Ibuprofen 200mg", "Thermometer", "Blood pressure cuff", "Test strips", "Alcohol swabs"}
	out := make([]model.Product, n)
	for i := range out {
		created := g.daysAgo(200)
		p := model.Product{
			ID:           g.id("product", i),
			Name:         items[i%len(items)],
			SKU:          fmt.Sprintf("SKU-%05d", g.rnd.IntN(100000)),
			Category:     pick(g, categories),
			Quantity:     g.rnd.IntN(200),
			ReorderLevel: 10 + g.rnd.IntN(30),
			UnitPrice:    float64(1+g.rnd.IntN(120)) + float64(g.rnd.IntN(100))/100,
			CreatedAt:    created,
			UpdatedAt:    created,
		}
		if g.rnd.IntN(8) == 0 {
			p.Quantity = 0
		}
		if len(suppliers) > 0 {
			s := pick(g, suppliers)
			p.SupplierID, p.SupplierName = s.ID, s.Name
		}
		p.Status = p.StockStatus()
		out[i] = p
	}
	return out
}

func (g *Generator) Workflows(n int) []model.WorkflowTemplate {
	names := []string{"New patient intake", "Post-op follow-up", "Month-end billing", "Insurance verification", "Lab result review", "Referral handling"}
	tags := []string{"onboarding", "forms", "finance", "insurance", "lab", "referrals", "surgery"}
	statuses := []string{model.WorkflowStatusDraft, model.WorkflowStatusActive, model.WorkflowStatusActive, model.WorkflowStatusPaused, model.WorkflowStatusArchived}
	out := make([]model.WorkflowTemplate, n)
	for i := range out {
		created := g.daysAgo(300)
		out[i] = model.WorkflowTemplate{
			ID:          g.id("workflow", i),
			Name:        names[i%len(names)],
			Description: "Standard operating procedure",
			Category:    pick(g, []string{"clinical", "administrative", "billing"}),
			Tags:        []string{pick(g, tags), pick(g, tags)},
			Steps:       1 + g.rnd.IntN(12),
			Status:      pick(g, statuses),
			CreatedAt:   created,
			UpdatedAt:   created,
		}
	}
	return out
}

func (g *Generator) SecurityEvents(n int) []model.SecurityEvent {
	types := []string{"login-failure", "permission-change", "data-export", "suspicious-activity"}
	severities := []string{model.SeverityLow, model.SeverityMedium, model.SeverityMedium, model.SeverityHigh, model.SeverityCritical}
	statuses := []string{model.SecurityEventOpen, model.SecurityEventInvestigating, model.SecurityEventResolved}
	out := make([]model.SecurityEvent, n)
	for i := range out {
		first, last := g.name()
		at := g.daysAgo(30)
		e := model.SecurityEvent{
			ID:         g.id("security-event", i),
			Type:       pick(g, types),
			Severity:   pick(g, severities),
			UserEmail:  emailFor(first, last),
			IPAddress:  fmt.Sprintf("10.%d.%d.%d", g.rnd.IntN(256), g.rnd.IntN(256), 1+g.rnd.IntN(254)),
			Status:     pick(g, statuses),
			OccurredAt: at,
			CreatedAt:  at,
			UpdatedAt:  at,
		}
		e.Description = strings.ReplaceAll(e.Type, "-", " ") + " detected"
		if e.Status == model.SecurityEventResolved {
			resolved := at.Add(time.Duration(1+g.rnd.IntN(48)) * time.Hour)
			e.ResolvedAt = &resolved
		}
		out[i] = e
	}
	return out
}

func (g *Generator) Logs(n int) []model.LogEntry {
	messages := map[string][]string{
		"info":  {"user signed in", "invoice generated", "appointment booked", "stock level updated"},
		"warn":  {"slow query detected", "retrying mail delivery", "stock below reorder level"},
		"error": {"payment gateway timeout", "failed to send reminder", "upstream returned 502"},
	}
	out := make([]model.LogEntry, n)
	for i := range out {
		first, last := g.name()
		level := pick(g, logLevels)
		at := g.daysAgo(7)
		out[i] = model.LogEntry{
			ID:         g.id("log", i),
			Level:      level,
			Source:     pick(g, logSources),
			Message:    pick(g, messages[level]),
			UserEmail:  emailFor(first, last),
			Status:     model.LogStatusRecorded,
			OccurredAt: at,
			CreatedAt:  at,
			UpdatedAt:  at,
		}
	}
	return out
}
