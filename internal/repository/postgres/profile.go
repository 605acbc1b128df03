package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/practice-dashboard/internal/model"
	"github.com/jwalitptl/practice-dashboard/internal/repository"
)

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.GetContext(ctx, &profile, `SELECT * FROM profiles WHERE id = $1`, id)
	if err != nil {
		return nil, notFound(err)
	}
	return &profile, nil
}

// Update applies only the non-nil fields of patch and returns the stored row.
func (r *profileRepository) Update(ctx context.Context, id string, patch model.ProfilePatch) (*model.Profile, error) {
	query := `
		UPDATE profiles
		SET full_name = COALESCE($1, full_name),
		    avatar_url = COALESCE($2, avatar_url),
		    updated_at = $3
		WHERE id = $4
		RETURNING *`

	var profile model.Profile
	err := r.db.GetContext(ctx, &profile, query, patch.FullName, patch.AvatarURL, dbNow(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return &profile, nil
}
