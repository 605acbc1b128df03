package resource

import (
	"time"

	"github.com/jwalitptl/practice-dashboard/internal/model"
	"github.com/jwalitptl/practice-dashboard/pkg/listctl"
)

type StaffStats struct {
	Total        int            `json:"total"`
	Active       int            `json:"active"`
	OnLeave      int            `json:"on_leave"`
	Inactive     int            `json:"inactive"`
	ByDepartment map[string]int `json:"by_department"`
	Visible      int            `json:"visible"`
}

func DeriveStaffStats(all, filtered []model.StaffMember) StaffStats {
	byStatus := listctl.CountBy(all, func(s model.StaffMember) string { return s.Status })
	return StaffStats{
		Total:        len(all),
		Active:       byStatus[model.StaffStatusActive],
		OnLeave:      byStatus[model.StaffStatusOnLeave],
		Inactive:     byStatus[model.StaffStatusInactive],
		ByDepartment: listctl.CountBy(all, func(s model.StaffMember) string { return s.Department }),
		Visible:      len(filtered),
	}
}

func StaffDefinition() Definition[model.StaffMember, model.CreateStaffRequest] {
	return Definition[model.StaffMember, model.CreateStaffRequest]{
		AdminOnly: true,
		Schema: listctl.Schema[model.StaffMember]{
			Name:      Staff,
			ID:        func(s model.StaffMember) string { return s.ID },
			Status:    func(s model.StaffMember) string { return s.Status },
			SetStatus: func(s model.StaffMember, st string) model.StaffMember { s.Status = st; return s },
			Version:   func(s model.StaffMember) time.Time { return s.UpdatedAt },
			Lifecycle: StaffLifecycle,
			TextFields: []func(model.StaffMember) string{
				func(s model.StaffMember) string { return s.Name },
				func(s model.StaffMember) string { return s.Email },
				func(s model.StaffMember) string { return s.RoleTitle },
				func(s model.StaffMember) string { return s.Department },
			},
			Filters: map[string]func(model.StaffMember) string{
				"status":     func(s model.StaffMember) string { return s.Status },
				"department": func(s model.StaffMember) string { return s.Department },
			},
			Stats: func(all, filtered []model.StaffMember) any {
				return DeriveStaffStats(all, filtered)
			},
		},
		Build: func(in model.CreateStaffRequest, _ *model.Profile, now time.Time) model.StaffMember {
			hired := in.HiredAt
			if hired.IsZero() {
				hired = now
			}
			return model.StaffMember{
				Name:       in.Name,
				Email:      in.Email,
				Phone:      in.Phone,
				RoleTitle:  in.RoleTitle,
				Department: in.Department,
				HiredAt:    hired,
			}
		},
	}
}
