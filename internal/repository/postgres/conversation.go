package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/practice-dashboard/internal/model"
	"github.com/jwalitptl/practice-dashboard/internal/repository"
)

type conversationRepository struct {
	db *sqlx.DB
}

func NewConversationRepository(db *sqlx.DB) repository.ConversationRepository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) Create(ctx context.Context, c *model.Conversation) error {
	now := dbNow()
	c.ID = uuid.NewString()
	c.CreatedAt, c.UpdatedAt = now, now

	query := `
		INSERT INTO conversations (id, subject, participant_ids, last_message_at, created_at, updated_at)
		VALUES (:id, :subject, :participant_ids, :last_message_at, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, c); err != nil {
		return fmt.Errorf("failed to create conversation: %w", err)
	}
	return nil
}

func (r *conversationRepository) Get(ctx context.Context, id string) (*model.Conversation, error) {
	var c model.Conversation
	if err := r.db.GetContext(ctx, &c, `SELECT * FROM conversations WHERE id = $1`, id); err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *conversationRepository) ListForParticipant(ctx context.Context, userID string) ([]model.Conversation, error) {
	query := `
		SELECT * FROM conversations
		WHERE $1 = ANY(participant_ids)
		ORDER BY COALESCE(last_message_at, created_at) DESC`
	var conversations []model.Conversation
	if err := r.db.SelectContext(ctx, &conversations, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	return conversations, nil
}
