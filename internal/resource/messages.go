package resource

import (
	"time"

	"github.com/jwalitptl/practice-dashboard/internal/model"
	"github.com/jwalitptl/practice-dashboard/pkg/listctl"
)

type MessageStats struct {
	Total   int `json:"total"`
	Unread  int `json:"unread"`
	Urgent  int `json:"urgent"`
	Visible int `json:"visible"`
}

func DeriveMessageStats(all, filtered []model.Message) MessageStats {
	return MessageStats{
		Total:   len(all),
		Unread:  listctl.Count(all, func(m model.Message) bool { return m.Status == model.MessageStatusUnread }),
		Urgent:  listctl.Count(all, func(m model.Message) bool { return m.Priority == "urgent" }),
		Visible: len(filtered),
	}
}

func MessageDefinition() Definition[model.Message, model.CreateMessageRequest] {
	return Definition[model.Message, model.CreateMessageRequest]{
		Schema: listctl.Schema[model.Message]{
			Name:      Messages,
			ID:        func(m model.Message) string { return m.ID },
			Status:    func(m model.Message) string { return m.Status },
			SetStatus: func(m model.Message, s string) model.Message { m.Status = s; return m },
			Version:   func(m model.Message) time.Time { return m.UpdatedAt },
			// read_at survives archiving and is only cleared when marked unread
			Stamp: func(m model.Message, s string, at time.Time) model.Message {
				switch s {
				case model.MessageStatusRead:
					if m.ReadAt == nil {
						m.ReadAt = &at
					}
				case model.MessageStatusUnread:
					m.ReadAt = nil
				}
				return m
			},
			Lifecycle: MessageLifecycle,
			TextFields: []func(model.Message) string{
				func(m model.Message) string { return m.Subject },
				func(m model.Message) string { return m.Body },
				func(m model.Message) string { return m.SenderName },
			},
			Filters: map[string]func(model.Message) string{
				"status":   func(m model.Message) string { return m.Status },
				"priority": func(m model.Message) string { return m.Priority },
			},
			Stats: func(all, filtered []model.Message) any {
				return DeriveMessageStats(all, filtered)
			},
			Audience: func(m model.Message) []string { return []string{m.SenderID, m.RecipientID} },
		},
		Build: func(in model.CreateMessageRequest, actor *model.Profile, _ time.Time) model.Message {
			m := model.Message{
				ConversationID: in.ConversationID,
				RecipientID:    in.RecipientID,
				Subject:        in.Subject,
				Body:           in.Body,
				Priority:       defaultString(in.Priority, "normal"),
			}
			if actor != nil {
				m.SenderID = actor.ID
				m.SenderName = actor.FullName
			}
			return m
		},
	}
}
