package memory

import (
	"time"

	"github.com/jwalitptl/practice-dashboard/internal/model"
)

func NewInvoiceStore() *Store[model.Invoice] {
	return NewStore(Hooks[model.Invoice]{
		ID: func(i model.Invoice) string { return i.ID },
		Assign: func(i model.Invoice, id string, now time.Time) model.Invoice {
			i.ID, i.CreatedAt, i.UpdatedAt = id, now, now
			return i
		},
		Touch:   func(i model.Invoice, now time.Time) model.Invoice { i.UpdatedAt = now; return i },
		Status:  func(i model.Invoice) string { return i.Status },
		Version: func(i model.Invoice) time.Time { return i.UpdatedAt },
	})
}

func NewStaffStore() *Store[model.StaffMember] {
	return NewStore(Hooks[model.StaffMember]{
		ID: func(s model.StaffMember) string { return s.ID },
		Assign: func(s model.StaffMember, id string, now time.Time) model.StaffMember {
			s.ID, s.CreatedAt, s.UpdatedAt = id, now, now
			return s
		},
		Touch:   func(s model.StaffMember, now time.Time) model.StaffMember { s.UpdatedAt = now; return s },
		Status:  func(s model.StaffMember) string { return s.Status },
		Version: func(s model.StaffMember) time.Time { return s.UpdatedAt },
	})
}

func NewProductStore() *Store[model.Product] {
	return NewStore(Hooks[model.Product]{
		ID: func(p model.Product) string { return p.ID },
		Assign: func(p model.Product, id string, now time.Time) model.Product {
			p.ID, p.CreatedAt, p.UpdatedAt = id, now, now
			return p
		},
		Touch:   func(p model.Product, now time.Time) model.Product { p.UpdatedAt = now; return p },
		Status:  func(p model.Product) string { return p.Status },
		Version: func(p model.Product) time.Time { return p.UpdatedAt },
	})
}

func NewSupplierStore() *Store[model.Supplier] {
	return NewStore(Hooks[model.Supplier]{
		ID: func(s model.Supplier) string { return s.ID },
		Assign: func(s model.Supplier, id string, now time.Time) model.Supplier {
			s.ID, s.CreatedAt, s.UpdatedAt = id, now, now
			return s
		},
		Touch:   func(s model.Supplier, now time.Time) model.Supplier { s.UpdatedAt = now; return s },
		Status:  func(s model.Supplier) string { return s.Status },
		Version: func(s model.Supplier) time.Time { return s.UpdatedAt },
	})
}

func NewWorkflowStore() *Store[model.WorkflowTemplate] {
	return NewStore(Hooks[model.WorkflowTemplate]{
		ID: func(w model.WorkflowTemplate) string { return w.ID },
		Assign: func(w model.WorkflowTemplate, id string, now time.Time) model.WorkflowTemplate {
			w.ID, w.CreatedAt, w.UpdatedAt = id, now, now
			return w
		},
		Touch:   func(w model.WorkflowTemplate, now time.Time) model.WorkflowTemplate { w.UpdatedAt = now; return w },
		Status:  func(w model.WorkflowTemplate) string { return w.Status },
		Version: func(w model.WorkflowTemplate) time.Time { return w.UpdatedAt },
	})
}

func NewSecurityEventStore() *Store[model.SecurityEvent] {
	return NewStore(Hooks[model.SecurityEvent]{
		ID: func(e model.SecurityEvent) string { return e.ID },
		Assign: func(e model.SecurityEvent, id string, now time.Time) model.SecurityEvent {
			e.ID, e.CreatedAt, e.UpdatedAt = id, now, now
			return e
		},
		Touch:   func(e model.SecurityEvent, now time.Time) model.SecurityEvent { e.UpdatedAt = now; return e },
		Status:  func(e model.SecurityEvent) string { return e.Status },
		Version: func(e model.SecurityEvent) time.Time { return e.UpdatedAt },
	})
}

func NewLogStore() *Store[model.LogEntry] {
	return NewStore(Hooks[model.LogEntry]{
		ID: func(l model.LogEntry) string { return l.ID },
		Assign: func(l model.LogEntry, id string, now time.Time) model.LogEntry {
			l.ID, l.CreatedAt, l.UpdatedAt = id, now, now
			return l
		},
	})
}
