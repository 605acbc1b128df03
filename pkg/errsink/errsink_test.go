package errsink

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	apperrors "github.com/jwalitptl/practice-dashboard/pkg/errors"
	"github.com/jwalitptl/practice-dashboard/pkg/reqctx"
)

func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zap.ErrorLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	t.Cleanup(restore)
	return logs
}

func TestCaptureSkipsClassifiedErrors(t *testing.T) {
	logs := observe(t)

	assert.False(t, Capture(context.Background(), nil, "nothing"))
	assert.False(t, Capture(context.Background(), apperrors.NotFound("patient", nil), "lookup"))
	assert.Equal(t, 0, logs.Len())
}

func TestCaptureRecordsUnexpectedErrors(t *testing.T) {
	logs := observe(t)
	ctx := reqctx.WithRequestID(context.Background(), "req-1")
	ctx = reqctx.WithPrincipal(ctx, reqctx.Principal{UserID: "u1", Role: "admin"})

	assert.True(t, Capture(ctx, errors.New("connection refused"), "list patients"))
	assert.True(t, Capture(ctx, apperrors.Internal(errors.New("boom")), "create invoice"))

	entries := logs.All()
	assert.Len(t, entries, 2)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "u1", fields["user_id"])
}

func TestNewDisabledIsNop(t *testing.T) {
	l := New(Config{})
	defer zap.ReplaceGlobals(zap.NewNop())
	assert.NotNil(t, l)
}
