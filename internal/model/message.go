package model

import (
	"time"

	"github.com/lib/pq"
)

const (
	MessageStatusUnread   = "unread"
	MessageStatusRead     = "read"
	MessageStatusArchived = "archived"
)

type Message struct {
	ID             string     `db:"id" json:"id"`
	ConversationID *string    `db:"conversation_id" json:"conversation_id,omitempty"`
	SenderID       string     `db:"sender_id" json:"sender_id"`
	SenderName     string     `db:"sender_name" json:"sender_name"`
	RecipientID    string     `db:"recipient_id" json:"recipient_id" validate:"required"`
	Subject        string     `db:"subject" json:"subject" validate:"required"`
	Body           string     `db:"body" json:"body" validate:"required"`
	Priority       string     `db:"priority" json:"priority" validate:"required,oneof=normal high urgent"`
	Status         string     `db:"status" json:"status"`
	ReadAt         *time.Time `db:"read_at" json:"read_at,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

type CreateMessageRequest struct {
	ConversationID *string `json:"conversation_id"`
	RecipientID    string  `json:"recipient_id" binding:"required"`
	Subject        string  `json:"subject" binding:"required"`
	Body           string  `json:"body" binding:"required"`
	Priority       string  `json:"priority"`
}

type Conversation struct {
	ID             string         `db:"id" json:"id"`
	Subject        string         `db:"subject" json:"subject"`
	ParticipantIDs pq.StringArray `db:"participant_ids" json:"participant_ids"`
	LastMessageAt  *time.Time     `db:"last_message_at" json:"last_message_at,omitempty"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}

type CreateConversationRequest struct {
	Subject        string   `json:"subject" binding:"required"`
	ParticipantIDs []string `json:"participant_ids" binding:"required,min=1"`
}
