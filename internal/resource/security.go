package resource

import (
	"time"

	"github.com/jwalitptl/practice-dashboard/internal/model"
	"github.com/jwalitptl/practice-dashboard/pkg/listctl"
)

type SecurityEventStats struct {
	Total          int     `json:"total"`
	Open           int     `json:"open"`
	Investigating  int     `json:"investigating"`
	Critical       int     `json:"critical"`
	ResolutionRate float64 `json:"resolution_rate"`
	Visible        int     `json:"visible"`
}

func DeriveSecurityEventStats(all, filtered []model.SecurityEvent) SecurityEventStats {
	byStatus := listctl.CountBy(all, func(e model.SecurityEvent) string { return e.Status })
	return SecurityEventStats{
		Total:          len(all),
		Open:           byStatus[model.SecurityEventOpen],
		Investigating:  byStatus[model.SecurityEventInvestigating],
		Critical:       listctl.Count(all, func(e model.SecurityEvent) bool { return e.Severity == model.SeverityCritical }),
		ResolutionRate: listctl.Percent(float64(byStatus[model.SecurityEventResolved]), float64(len(all))),
		Visible:        len(filtered),
	}
}

func SecurityEventDefinition() Definition[model.SecurityEvent, model.CreateSecurityEventRequest] {
	return Definition[model.SecurityEvent, model.CreateSecurityEventRequest]{
		AdminOnly: true,
		Schema: listctl.Schema[model.SecurityEvent]{
			Name:      SecurityEvents,
			ID:        func(e model.SecurityEvent) string { return e.ID },
			Status:    func(e model.SecurityEvent) string { return e.Status },
			SetStatus: func(e model.SecurityEvent, s string) model.SecurityEvent { e.Status = s; return e },
			Version:   func(e model.SecurityEvent) time.Time { return e.UpdatedAt },
			Stamp: func(e model.SecurityEvent, s string, at time.Time) model.SecurityEvent {
				if s == model.SecurityEventResolved {
					e.ResolvedAt = &at
				} else {
					e.ResolvedAt = nil
				}
				return e
			},
			Lifecycle: SecurityEventLifecycle,
			TextFields: []func(model.SecurityEvent) string{
				func(e model.SecurityEvent) string { return e.Description },
				func(e model.SecurityEvent) string { return e.UserEmail },
				func(e model.SecurityEvent) string { return e.IPAddress },
			},
			Filters: map[string]func(model.SecurityEvent) string{
				"severity": func(e model.SecurityEvent) string { return e.Severity },
				"type":     func(e model.SecurityEvent) string { return e.Type },
				"status":   func(e model.SecurityEvent) string { return e.Status },
			},
			Stats: func(all, filtered []model.SecurityEvent) any {
				return DeriveSecurityEventStats(all, filtered)
			},
		},
		Build: func(in model.CreateSecurityEventRequest, _ *model.Profile, now time.Time) model.SecurityEvent {
			occurred := in.OccurredAt
			if occurred.IsZero() {
				occurred = now
			}
			return model.SecurityEvent{
				Type:        in.Type,
				Severity:    in.Severity,
				Description: in.Description,
				UserEmail:   in.UserEmail,
				IPAddress:   in.IPAddress,
				OccurredAt:  occurred,
			}
		},
	}
}

type LogStats struct {
	Total     int            `json:"total"`
	ByLevel   map[string]int `json:"by_level"`
	ErrorRate float64        `json:"error_rate"`
	Visible   int            `json:"visible"`
}

func DeriveLogStats(all, filtered []model.LogEntry) LogStats {
	byLevel := listctl.CountBy(all, func(l model.LogEntry) string { return l.Level })
	return LogStats{
		Total:     len(all),
		ByLevel:   byLevel,
		ErrorRate: listctl.Percent(float64(byLevel["error"]), float64(len(all))),
		Visible:   len(filtered),
	}
}

// LogDefinition is read-only; entries are produced by the system, not the UI.
func LogDefinition() Definition[model.LogEntry, struct{}] {
	return Definition[model.LogEntry, struct{}]{
		AdminOnly: true,
		Schema: listctl.Schema[model.LogEntry]{
			Name:      Logs,
			ReadOnly:  true,
			ID:        func(l model.LogEntry) string { return l.ID },
			Status:    func(l model.LogEntry) string { return l.Status },
			SetStatus: func(l model.LogEntry, s string) model.LogEntry { l.Status = s; return l },
			Lifecycle: LogLifecycle,
			TextFields: []func(model.LogEntry) string{
				func(l model.LogEntry) string { return l.Message },
				func(l model.LogEntry) string { return l.Source },
				func(l model.LogEntry) string { return l.UserEmail },
			},
			Filters: map[string]func(model.LogEntry) string{
				"level":  func(l model.LogEntry) string { return l.Level },
				"source": func(l model.LogEntry) string { return l.Source },
			},
			Stats: func(all, filtered []model.LogEntry) any {
				return DeriveLogStats(all, filtered)
			},
		},
	}
}
