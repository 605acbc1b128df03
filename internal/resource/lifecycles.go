package resource

import (
	"github.com/jwalitptl/practice-dashboard/internal/model"
	"github.com/jwalitptl/practice-dashboard/pkg/lifecycle"
)

var (
	PatientLifecycle = lifecycle.New("patient", model.PatientStatusActive, lifecycle.Transitions{
		model.PatientStatusActive:   {model.PatientStatusInactive},
		model.PatientStatusInactive: {model.PatientStatusActive},
	})

	AppointmentLifecycle = lifecycle.New("appointment", model.AppointmentStatusScheduled, lifecycle.Transitions{
		model.AppointmentStatusScheduled:  {model.AppointmentStatusInProgress, model.AppointmentStatusCancelled, model.AppointmentStatusNoShow},
		model.AppointmentStatusInProgress: {model.AppointmentStatusCompleted, model.AppointmentStatusCancelled},
	}, model.AppointmentStatusCompleted, model.AppointmentStatusCancelled, model.AppointmentStatusNoShow)

	InvoiceLifecycle = lifecycle.New("invoice", model.InvoiceStatusDraft, lifecycle.Transitions{
		model.InvoiceStatusDraft:   {model.InvoiceStatusSent, model.InvoiceStatusCancelled},
		model.InvoiceStatusSent:    {model.InvoiceStatusPaid, model.InvoiceStatusOverdue, model.InvoiceStatusCancelled},
		model.InvoiceStatusOverdue: {model.InvoiceStatusPaid, model.InvoiceStatusCancelled},
	}, model.InvoiceStatusPaid, model.InvoiceStatusCancelled)

	StaffLifecycle = lifecycle.New("staff", model.StaffStatusActive, lifecycle.Transitions{
		model.StaffStatusActive:   {model.StaffStatusOnLeave, model.StaffStatusInactive},
		model.StaffStatusOnLeave:  {model.StaffStatusActive, model.StaffStatusInactive},
		model.StaffStatusInactive: {model.StaffStatusActive},
	})

	ProductLifecycle = lifecycle.New("product", model.ProductStatusInStock, lifecycle.Transitions{
		model.ProductStatusInStock:    {model.ProductStatusLowStock, model.ProductStatusOutOfStock, model.ProductStatusDiscontinued},
		model.ProductStatusLowStock:   {model.ProductStatusInStock, model.ProductStatusOutOfStock, model.ProductStatusDiscontinued},
		model.ProductStatusOutOfStock: {model.ProductStatusInStock, model.ProductStatusLowStock, model.ProductStatusDiscontinued},
	}, model.ProductStatusDiscontinued)

	SupplierLifecycle = lifecycle.New("supplier", model.SupplierStatusActive, lifecycle.Transitions{
		model.SupplierStatusActive:   {model.SupplierStatusInactive},
		model.SupplierStatusInactive: {model.SupplierStatusActive},
	})

	WorkflowLifecycle = lifecycle.New("workflow", model.WorkflowStatusDraft, lifecycle.Transitions{
		model.WorkflowStatusDraft:  {model.WorkflowStatusActive, model.WorkflowStatusArchived},
		model.WorkflowStatusActive: {model.WorkflowStatusPaused, model.WorkflowStatusArchived},
		model.WorkflowStatusPaused: {model.WorkflowStatusActive, model.WorkflowStatusArchived},
	}, model.WorkflowStatusArchived)

	SecurityEventLifecycle = lifecycle.New("security event", model.SecurityEventOpen, lifecycle.Transitions{
		model.SecurityEventOpen:          {model.SecurityEventInvestigating, model.SecurityEventResolved},
		model.SecurityEventInvestigating: {model.SecurityEventResolved},
	}, model.SecurityEventResolved)

	LogLifecycle = lifecycle.New("log", model.LogStatusRecorded, nil)

	MessageLifecycle = lifecycle.New("message", model.MessageStatusUnread, lifecycle.Transitions{
		model.MessageStatusUnread: {model.MessageStatusRead, model.MessageStatusArchived},
		model.MessageStatusRead:   {model.MessageStatusUnread, model.MessageStatusArchived},
	}, model.MessageStatusArchived)
)
