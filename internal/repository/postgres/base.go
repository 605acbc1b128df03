package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jwalitptl/practice-dashboard/internal/repository"
	"github.com/jwalitptl/practice-dashboard/pkg/listctl"
)

const uniqueViolation = "23505"

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	db *sqlx.DB
}

func NewBaseRepository(db *sqlx.DB) BaseRepository {
	return BaseRepository{db: db}
}

// WithTx executes a function within a transaction
func (r *BaseRepository) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

// mustAffect turns a zero-row UPDATE or DELETE into repository.ErrNotFound.
func mustAffect(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// guarded is the named-parameter payload of an UPDATE whose WHERE clause was
// built by guardClause.
type guarded struct {
	ExpectStatus  string    `db:"expect_status"`
	ExpectVersion time.Time `db:"expect_version"`
}

func guardOf(expect listctl.Expect) guarded {
	return guarded{ExpectStatus: expect.Status, ExpectVersion: expect.Version}
}

// guardClause narrows an UPDATE to the row state described by expect.
func guardClause(expect listctl.Expect) string {
	clause := ""
	if expect.Status != "" {
		clause += ` AND status = :expect_status`
	}
	if !expect.Version.IsZero() {
		clause += ` AND updated_at = :expect_version`
	}
	return clause
}

// mustAffectGuarded is mustAffect for guarded updates: a zero-row result on
// an existing row means the guard failed.
func mustAffectGuarded(ctx context.Context, db sqlx.QueryerContext, res sql.Result, table, id string) error {
	err := mustAffect(res)
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	var exists bool
	if err := sqlx.GetContext(ctx, db, &exists, `SELECT EXISTS (SELECT 1 FROM `+table+` WHERE id = $1)`, id); err != nil {
		return err
	}
	if exists {
		return listctl.ErrStale
	}
	return repository.ErrNotFound
}

// dbNow returns the current time at TIMESTAMPTZ precision, so a returned
// entity carries the same updated_at a later read will see.
func dbNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
