package resource

import (
	"github.com/jwalitptl/practice-dashboard/internal/model"
	"github.com/jwalitptl/practice-dashboard/pkg/authorize"
)

// ScopedToParticipant reports whether role only sees the entities of res
// it takes part in: doctors their own appointments, everyone but admins
// their own messages. List queries and the notice stream both apply it.
func ScopedToParticipant(res string, role model.Role) bool {
	switch res {
	case Appointments:
		return role == model.RoleDoctor
	case Messages:
		return role != model.RoleAdmin
	default:
		return false
	}
}

// Policies is the role to resource permission table.
func Policies() []authorize.Policy {
	admin := string(model.RoleAdmin)
	doctor := string(model.RoleDoctor)
	support := string(model.RoleSupport)
	all := "*"
	read := string(authorize.ActionRead)

	return []authorize.Policy{
		{Role: admin, Resource: all, Action: all},

		{Role: doctor, Resource: Patients, Action: all},
		{Role: doctor, Resource: Appointments, Action: all},
		{Role: doctor, Resource: Messages, Action: all},
		{Role: doctor, Resource: Conversations, Action: all},
		{Role: doctor, Resource: MedicalNotes, Action: all},
		{Role: doctor, Resource: PatientFiles, Action: all},

		{Role: support, Resource: Messages, Action: all},
		{Role: support, Resource: Conversations, Action: all},
		{Role: support, Resource: Patients, Action: read},
		{Role: support, Resource: Appointments, Action: read},
		{Role: support, Resource: Products, Action: all},
		{Role: support, Resource: Suppliers, Action: all},
	}
}
