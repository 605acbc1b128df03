package resource

import (
	"time"

	"github.com/jwalitptl/practice-dashboard/internal/model"
	"github.com/jwalitptl/practice-dashboard/pkg/listctl"
)

type AppointmentStats struct {
	Total          int     `json:"total"`
	Scheduled      int     `json:"scheduled"`
	InProgress     int     `json:"in_progress"`
	Completed      int     `json:"completed"`
	Cancelled      int     `json:"cancelled"`
	NoShow         int     `json:"no_show"`
	Today          int     `json:"today"`
	CompletionRate float64 `json:"completion_rate"`
	Visible        int     `json:"visible"`
}

func DeriveAppointmentStats(all, filtered []model.Appointment, now time.Time) AppointmentStats {
	byStatus := listctl.CountBy(all, func(a model.Appointment) string { return a.Status })
	return AppointmentStats{
		Total:          len(all),
		Scheduled:      byStatus[model.AppointmentStatusScheduled],
		InProgress:     byStatus[model.AppointmentStatusInProgress],
		Completed:      byStatus[model.AppointmentStatusCompleted],
		Cancelled:      byStatus[model.AppointmentStatusCancelled],
		NoShow:         byStatus[model.AppointmentStatusNoShow],
		Today:          listctl.Count(all, func(a model.Appointment) bool { return sameDay(a.ScheduledAt, now) }),
		CompletionRate: listctl.Percent(float64(byStatus[model.AppointmentStatusCompleted]), float64(len(all))),
		Visible:        len(filtered),
	}
}

func AppointmentDefinition() Definition[model.Appointment, model.CreateAppointmentRequest] {
	return Definition[model.Appointment, model.CreateAppointmentRequest]{
		Schema: listctl.Schema[model.Appointment]{
			Name:      Appointments,
			ID:        func(a model.Appointment) string { return a.ID },
			Status:    func(a model.Appointment) string { return a.Status },
			SetStatus: func(a model.Appointment, s string) model.Appointment { a.Status = s; return a },
			Version:   func(a model.Appointment) time.Time { return a.UpdatedAt },
			Stamp: func(a model.Appointment, s string, at time.Time) model.Appointment {
				if s == model.AppointmentStatusCompleted {
					a.CompletedAt = &at
				} else {
					a.CompletedAt = nil
				}
				return a
			},
			Lifecycle: AppointmentLifecycle,
			TextFields: []func(model.Appointment) string{
				func(a model.Appointment) string { return a.PatientName },
				func(a model.Appointment) string { return a.DoctorName },
				func(a model.Appointment) string { return a.Type },
				func(a model.Appointment) string { return a.Notes },
			},
			Filters: map[string]func(model.Appointment) string{
				"status":    func(a model.Appointment) string { return a.Status },
				"type":      func(a model.Appointment) string { return a.Type },
				"doctor_id": func(a model.Appointment) string { return a.DoctorID },
			},
			Stats: func(all, filtered []model.Appointment) any {
				return DeriveAppointmentStats(all, filtered, time.Now())
			},
			Audience: func(a model.Appointment) []string { return []string{a.DoctorID} },
		},
		Build: func(in model.CreateAppointmentRequest, actor *model.Profile, _ time.Time) model.Appointment {
			a := model.Appointment{
				PatientID:       in.PatientID,
				PatientName:     in.PatientName,
				DoctorID:        in.DoctorID,
				DoctorName:      in.DoctorName,
				Type:            in.Type,
				ScheduledAt:     in.ScheduledAt,
				DurationMinutes: in.DurationMinutes,
				Notes:           in.Notes,
			}
			// doctors booking for themselves may omit the doctor fields
			if a.DoctorID == "" && actor != nil && actor.Role == model.RoleDoctor {
				a.DoctorID = actor.ID
				a.DoctorName = actor.FullName
			}
			if a.DurationMinutes == 0 {
				a.DurationMinutes = 30
			}
			return a
		},
	}
}
