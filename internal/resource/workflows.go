package resource

import (
	"strings"
	"time"

	"github.com/jwalitptl/practice-dashboard/internal/model"
	"github.com/jwalitptl/practice-dashboard/pkg/listctl"
)

type WorkflowStats struct {
	Total        int     `json:"total"`
	Active       int     `json:"active"`
	Draft        int     `json:"draft"`
	AverageSteps float64 `json:"average_steps"`
	Visible      int     `json:"visible"`
}

func DeriveWorkflowStats(all, filtered []model.WorkflowTemplate) WorkflowStats {
	steps := listctl.Sum(all, func(w model.WorkflowTemplate) float64 { return float64(w.Steps) }, nil)
	return WorkflowStats{
		Total:        len(all),
		Active:       listctl.Count(all, func(w model.WorkflowTemplate) bool { return w.Status == model.WorkflowStatusActive }),
		Draft:        listctl.Count(all, func(w model.WorkflowTemplate) bool { return w.Status == model.WorkflowStatusDraft }),
		AverageSteps: listctl.Ratio(steps, float64(len(all))),
		Visible:      len(filtered),
	}
}

func WorkflowDefinition() Definition[model.WorkflowTemplate, model.CreateWorkflowRequest] {
	return Definition[model.WorkflowTemplate, model.CreateWorkflowRequest]{
		AdminOnly: true,
		Schema: listctl.Schema[model.WorkflowTemplate]{
			Name:      Workflows,
			ID:        func(w model.WorkflowTemplate) string { return w.ID },
			Status:    func(w model.WorkflowTemplate) string { return w.Status },
			SetStatus: func(w model.WorkflowTemplate, s string) model.WorkflowTemplate { w.Status = s; return w },
			Version:   func(w model.WorkflowTemplate) time.Time { return w.UpdatedAt },
			Lifecycle: WorkflowLifecycle,
			TextFields: []func(model.WorkflowTemplate) string{
				func(w model.WorkflowTemplate) string { return w.Name },
				func(w model.WorkflowTemplate) string { return w.Description },
				func(w model.WorkflowTemplate) string { return strings.Join(w.Tags, " ") },
			},
			Filters: map[string]func(model.WorkflowTemplate) string{
				"status":   func(w model.WorkflowTemplate) string { return w.Status },
				"category": func(w model.WorkflowTemplate) string { return w.Category },
			},
			Stats: func(all, filtered []model.WorkflowTemplate) any {
				return DeriveWorkflowStats(all, filtered)
			},
		},
		Build: func(in model.CreateWorkflowRequest, _ *model.Profile, _ time.Time) model.WorkflowTemplate {
			return model.WorkflowTemplate{
				Name:        in.Name,
				Description: in.Description,
				Category:    in.Category,
				Tags:        in.Tags,
				Steps:       in.Steps,
			}
		},
	}
}
