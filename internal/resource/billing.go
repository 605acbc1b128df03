package resource

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/practice-dashboard/internal/model"
	"github.com/jwalitptl/practice-dashboard/pkg/listctl"
)

const defaultPaymentTerms = 30 * 24 * time.Hour

type InvoiceStats struct {
	Count             int            `json:"count"`
	ByStatus          map[string]int `json:"by_status"`
	TotalAmount       float64        `json:"total_amount"`
	PaidAmount        float64        `json:"paid_amount"`
	OutstandingAmount float64        `json:"outstanding_amount"`
	OverdueCount      int            `json:"overdue_count"`
	CollectionRate    float64        `json:"collection_rate"`
	Visible           int            `json:"visible"`
}

func amount(i model.Invoice) float64 { return i.Amount }

func DeriveInvoiceStats(all, filtered []model.Invoice) InvoiceStats {
	billed := listctl.Sum(all, amount, func(i model.Invoice) bool {
		return i.Status != model.InvoiceStatusCancelled && i.Status != model.InvoiceStatusDraft
	})
	paid := listctl.Sum(all, amount, func(i model.Invoice) bool { return i.Status == model.InvoiceStatusPaid })

	return InvoiceStats{
		Count:       len(all),
		ByStatus:    listctl.CountBy(all, func(i model.Invoice) string { return i.Status }),
		TotalAmount: billed,
		PaidAmount:  paid,
		OutstandingAmount: listctl.Sum(all, amount, func(i model.Invoice) bool {
			return i.Status == model.InvoiceStatusSent || i.Status == model.InvoiceStatusOverdue
		}),
		OverdueCount:   listctl.Count(all, func(i model.Invoice) bool { return i.Status == model.InvoiceStatusOverdue }),
		CollectionRate: listctl.Percent(paid, billed),
		Visible:        len(filtered),
	}
}

func InvoiceNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("INV-%s-%s", now.Format("20060102"), suffix)
}

func InvoiceDefinition() Definition[model.Invoice, model.CreateInvoiceRequest] {
	return Definition[model.Invoice, model.CreateInvoiceRequest]{
		AdminOnly: true,
		Schema: listctl.Schema[model.Invoice]{
			Name:      Invoices,
			ID:        func(i model.Invoice) string { return i.ID },
			Status:    func(i model.Invoice) string { return i.Status },
			SetStatus: func(i model.Invoice, s string) model.Invoice { i.Status = s; return i },
			Version:   func(i model.Invoice) time.Time { return i.UpdatedAt },
			Stamp: func(i model.Invoice, s string, at time.Time) model.Invoice {
				if s == model.InvoiceStatusPaid {
					i.PaidAt = &at
				} else {
					i.PaidAt = nil
				}
				return i
			},
			Lifecycle: InvoiceLifecycle,
			TextFields: []func(model.Invoice) string{
				func(i model.Invoice) string { return i.Number },
				func(i model.Invoice) string { return i.PatientName },
				func(i model.Invoice) string { return i.Description },
			},
			Filters: map[string]func(model.Invoice) string{
				"status": func(i model.Invoice) string { return i.Status },
			},
			Stats: func(all, filtered []model.Invoice) any {
				return DeriveInvoiceStats(all, filtered)
			},
		},
		Build: func(in model.CreateInvoiceRequest, _ *model.Profile, now time.Time) model.Invoice {
			due := in.DueDate
			if due.IsZero() {
				due = now.Add(defaultPaymentTerms)
			}
			return model.Invoice{
				Number:      defaultString(in.Number, InvoiceNumber(now)),
				PatientID:   in.PatientID,
				PatientName: in.PatientName,
				Description: in.Description,
				Amount:      in.Amount,
				IssuedAt:    now,
				DueDate:     due,
			}
		},
	}
}
