package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/practice-dashboard/internal/model"
	"github.com/jwalitptl/practice-dashboard/internal/repository"
)

type userRepository struct {
	BaseRepository
}

func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*model.AuthUser, error) {
	var user model.AuthUser
	err := r.db.GetContext(ctx, &user, `SELECT * FROM auth_users WHERE id = $1`, id)
	if err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.AuthUser, error) {
	var user model.AuthUser
	err := r.db.GetContext(ctx, &user, `SELECT * FROM auth_users WHERE lower(email) = lower($1)`, email)
	if err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *userRepository) CreateWithProfile(ctx context.Context, user *model.AuthUser, profile *model.Profile) error {
	now := dbNow()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt, user.UpdatedAt = now, now
	profile.ID = user.ID
	profile.Email = user.Email
	profile.CreatedAt, profile.UpdatedAt = now, now

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO auth_users (id, email, password_hash, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5)`,
			user.ID, user.Email, user.PasswordHash, user.CreatedAt, user.UpdatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return repository.ErrDuplicateEmail
			}
			return fmt.Errorf("failed to create user: %w", err)
		}

		_, err = tx.NamedExecContext(ctx, `
			INSERT INTO profiles (id, email, full_name, role, avatar_url, created_at, updated_at)
			VALUES (:id, :email, :full_name, :role, :avatar_url, :created_at, :updated_at)`, profile)
		if err != nil {
			return fmt.Errorf("failed to create profile: %w", err)
		}
		return nil
	})
}

func (r *userRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE auth_users SET password_hash = $1, updated_at = $2 WHERE id = $3`,
		passwordHash, dbNow(), id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return mustAffect(res)
}
