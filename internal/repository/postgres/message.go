package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/practice-dashboard/internal/model"
	"github.com/jwalitptl/practice-dashboard/internal/repository"
	"github.com/jwalitptl/practice-dashboard/internal/resource"
	"github.com/jwalitptl/practice-dashboard/pkg/listctl"
	"github.com/jwalitptl/practice-dashboard/pkg/reqctx"
)

type messageRepository struct {
	BaseRepository
}

func NewMessageRepository(db *sqlx.DB) repository.MessageRepository {
	return &messageRepository{BaseRepository: NewBaseRepository(db)}
}

// List is scoped to the caller's inbox and outbox. Admins see every message.
func (r *messageRepository) List(ctx context.Context) ([]model.Message, error) {
	query := `SELECT * FROM messages`
	var args []interface{}
	if p, ok := reqctx.PrincipalFromContext(ctx); ok && resource.ScopedToParticipant(resource.Messages, model.Role(p.Role)) {
		query += ` WHERE recipient_id = $1 OR sender_id = $1`
		args = append(args, p.UserID)
	}
	query += ` ORDER BY created_at DESC`

	var messages []model.Message
	if err := r.db.SelectContext(ctx, &messages, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

func (r *messageRepository) ListForConversation(ctx context.Context, conversationID string) ([]model.Message, error) {
	var messages []model.Message
	err := r.db.SelectContext(ctx, &messages,
		`SELECT * FROM messages WHERE conversation_id = $1 ORDER BY created_at ASC`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversation messages: %w", err)
	}
	return messages, nil
}

// Create inserts the message and bumps its conversation in one transaction.
func (r *messageRepository) Create(ctx context.Context, m model.Message) (model.Message, error) {
	now := dbNow()
	m.ID = uuid.NewString()
	m.CreatedAt, m.UpdatedAt = now, now

	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO messages (
				id, conversation_id, sender_id, sender_name, recipient_id, subject,
				body, priority, status, read_at, created_at, updated_at
			) VALUES (
				:id, :conversation_id, :sender_id, :sender_name, :recipient_id, :subject,
				:body, :priority, :status, :read_at, :created_at, :updated_at
			)`
		if _, err := tx.NamedExecContext(ctx, query, m); err != nil {
			return err
		}
		if m.ConversationID == nil {
			return nil
		}
		res, err := tx.ExecContext(ctx,
			`UPDATE conversations SET last_message_at = $1, updated_at = $1 WHERE id = $2`,
			now, *m.ConversationID)
		if err != nil {
			return err
		}
		return mustAffect(res)
	})
	if err != nil {
		return model.Message{}, fmt.Errorf("failed to create message: %w", err)
	}
	return m, nil
}

func (r *messageRepository) Update(ctx context.Context, m model.Message, expect listctl.Expect) (model.Message, error) {
	m.UpdatedAt = dbNow()
	query := `UPDATE messages SET status = :status, read_at = :read_at, updated_at = :updated_at WHERE id = :id` +
		guardClause(expect)
	arg := struct {
		model.Message
		guarded
	}{m, guardOf(expect)}
	res, err := r.db.NamedExecContext(ctx, query, arg)
	if err != nil {
		return model.Message{}, fmt.Errorf("failed to update message: %w", err)
	}
	if err := mustAffectGuarded(ctx, r.db, res, "messages", m.ID); err != nil {
		return model.Message{}, err
	}
	return m, nil
}

func (r *messageRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return mustAffect(res)
}
