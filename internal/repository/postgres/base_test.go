package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/jwalitptl/practice-dashboard/internal/repository"
	"github.com/jwalitptl/practice-dashboard/pkg/listctl"
)

type rowsResult int64

func (r rowsResult) LastInsertId() (int64, error) { return 0, nil }
func (r rowsResult) RowsAffected() (int64, error) { return int64(r), nil }

func TestMustAffect(t *testing.T) {
	assert.ErrorIs(t, mustAffect(rowsResult(0)), repository.ErrNotFound)
	assert.NoError(t, mustAffect(rowsResult(1)))
}

func TestGuardClause(t *testing.T) {
	assert.Empty(t, guardClause(listctl.Expect{}))
	assert.Equal(t, " AND status = :expect_status", guardClause(listctl.Expect{Status: "sent"}))
	assert.Equal(t, " AND status = :expect_status AND updated_at = :expect_version",
		guardClause(listctl.Expect{Status: "sent", Version: time.Now()}))
}

func TestMustAffectGuardedPassesOnWrite(t *testing.T) {
	assert.NoError(t, mustAffectGuarded(context.Background(), nil, rowsResult(1), "patients", "p1"))
}

func TestDBNowMatchesColumnPrecision(t *testing.T) {
	ts := dbNow()
	assert.Equal(t, time.UTC, ts.Location())
	assert.True(t, ts.Equal(ts.Truncate(time.Microsecond)))

	etag := ts.Format(time.RFC3339Nano)
	parsed, err := time.Parse(time.RFC3339Nano, etag)
	assert.NoError(t, err)
	assert.True(t, parsed.Equal(ts))
}

func TestNotFound(t *testing.T) {
	assert.ErrorIs(t, notFound(sql.ErrNoRows), repository.ErrNotFound)

	other := errors.New("connection reset")
	assert.Equal(t, other, notFound(other))
}

func TestIsUniqueViolation(t *testing.T) {
	wrapped := fmt.Errorf("insert: %w", &pq.Error{Code: uniqueViolation})
	assert.True(t, isUniqueViolation(wrapped))
	assert.False(t, isUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("boom")))
}

func TestMigrationsAreEmbedded(t *testing.T) {
	entries, err := migrationsFS.ReadDir(migrationsDir)
	assert.NoError(t, err)
	assert.NotEmpty(t, entries)
}
