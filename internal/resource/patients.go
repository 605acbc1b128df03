package resource

import (
	"time"

	"github.com/jwalitptl/practice-dashboard/internal/model"
	"github.com/jwalitptl/practice-dashboard/pkg/listctl"
)

type PatientStats struct {
	Total        int `json:"total"`
	Active       int `json:"active"`
	Inactive     int `json:"inactive"`
	NewThisMonth int `json:"new_this_month"`
	Visible      int `json:"visible"`
}

func DerivePatientStats(all, filtered []model.Patient, now time.Time) PatientStats {
	return PatientStats{
		Total:    len(all),
		Active:   listctl.Count(all, func(p model.Patient) bool { return p.Status == model.PatientStatusActive }),
		Inactive: listctl.Count(all, func(p model.Patient) bool { return p.Status == model.PatientStatusInactive }),
		NewThisMonth: listctl.Count(all, func(p model.Patient) bool {
			return p.CreatedAt.Year() == now.Year() && p.CreatedAt.Month() == now.Month()
		}),
		Visible: len(filtered),
	}
}

func PatientDefinition() Definition[model.Patient, model.CreatePatientRequest] {
	return Definition[model.Patient, model.CreatePatientRequest]{
		Schema: listctl.Schema[model.Patient]{
			Name:      Patients,
			ID:        func(p model.Patient) string { return p.ID },
			Status:    func(p model.Patient) string { return p.Status },
			SetStatus: func(p model.Patient, s string) model.Patient { p.Status = s; return p },
			Version:   func(p model.Patient) time.Time { return p.UpdatedAt },
			Lifecycle: PatientLifecycle,
			TextFields: []func(model.Patient) string{
				func(p model.Patient) string { return p.FirstName },
				func(p model.Patient) string { return p.LastName },
				func(p model.Patient) string { return p.Email },
				func(p model.Patient) string { return p.Phone },
			},
			Filters: map[string]func(model.Patient) string{
				"status": func(p model.Patient) string { return p.Status },
				"gender": func(p model.Patient) string { return p.Gender },
			},
			Stats: func(all, filtered []model.Patient) any {
				return DerivePatientStats(all, filtered, time.Now())
			},
		},
		Build: func(in model.CreatePatientRequest, _ *model.Profile, _ time.Time) model.Patient {
			return model.Patient{
				FirstName:        in.FirstName,
				LastName:         in.LastName,
				Email:            in.Email,
				Phone:            in.Phone,
				DateOfBirth:      in.DateOfBirth,
				Gender:           in.Gender,
				Address:          in.Address,
				AssignedDoctorID: in.AssignedDoctorID,
				Notes:            in.Notes,
			}
		},
	}
}
