package stream

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/practice-dashboard/internal/middleware"
	"github.com/jwalitptl/practice-dashboard/internal/model"
	"github.com/jwalitptl/practice-dashboard/internal/notify"
	"github.com/jwalitptl/practice-dashboard/internal/resource"
	"github.com/jwalitptl/practice-dashboard/internal/session"
	"github.com/jwalitptl/practice-dashboard/pkg/authorize"
	"github.com/jwalitptl/practice-dashboard/pkg/listctl"
)

// replayBroker hands every subscriber the same finite backlog.
type replayBroker struct {
	backlog [][]byte
	err     error
	channel string
}

func (b *replayBroker) Publish(context.Context, string, interface{}) error { return nil }

func (b *replayBroker) Subscribe(_ context.Context, channel string) (<-chan []byte, error) {
	if b.err != nil {
		return nil, b.err
	}
	b.channel = channel
	ch := make(chan []byte, len(b.backlog))
	for _, payload := range b.backlog {
		ch <- payload
	}
	close(ch)
	return ch, nil
}

func (b *replayBroker) Close() error { return nil }

func notice(t *testing.T, res, msg string, audience ...string) []byte {
	t.Helper()
	payload, err := json.Marshal(listctl.Notice{
		Resource: res, Kind: listctl.NoticeSuccess, Operation: "create", Message: msg, Audience: audience, At: time.Now().UTC(),
	})
	require.NoError(t, err)
	return payload
}

func serve(t *testing.T, broker *replayBroker, role model.Role) (*http.Response, string) {
	t.Helper()
	return serveAs(t, broker, "u1", role)
}

func serveAs(t *testing.T, broker *replayBroker, userID string, role model.Role) (*http.Response, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	authz, err := authorize.New(resource.Policies())
	require.NoError(t, err)
	nop := zerolog.Nop()

	r := gin.New()
	r.Use(middleware.ErrorHandler(), func(c *gin.Context) {
		c.Set(middleware.ContextSession, &session.Session{
			User:    &model.AuthUser{ID: userID},
			Profile: &model.Profile{ID: userID, Role: role},
		})
		c.Next()
	})
	NewHandler(broker, authz, time.Hour, &nop).RegisterRoutes(r.Group("/api/v1"))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/api/v1/notices/stream")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestStreamFiltersNoticesByRole(t *testing.T) {
	broker := &replayBroker{backlog: [][]byte{
		notice(t, resource.Patients, "Patient created successfully"),
		notice(t, resource.Invoices, "Invoice created successfully"),
		[]byte("not json"),
	}}

	resp, body := serve(t, broker, model.RoleDoctor)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/event-stream"), resp.Header.Get("Content-Type"))
	assert.Equal(t, notify.Channel, broker.channel)

	assert.Contains(t, body, "event:notice")
	assert.Contains(t, body, "Patient created successfully")
	assert.NotContains(t, body, "Invoice created successfully")
	assert.Equal(t, 1, strings.Count(body, "event:notice"))
}

func TestStreamShowsEverythingToAdmins(t *testing.T) {
	broker := &replayBroker{backlog: [][]byte{
		notice(t, resource.Patients, "Patient created successfully"),
		notice(t, resource.Invoices, "Invoice created successfully"),
	}}

	_, body := serve(t, broker, model.RoleAdmin)
	assert.Equal(t, 2, strings.Count(body, "event:notice"))
}

func TestStreamScopesParticipantNotices(t *testing.T) {
	broker := &replayBroker{backlog: [][]byte{
		notice(t, resource.Appointments, "Appointment for doc-1", "doc-1"),
		notice(t, resource.Appointments, "Appointment for doc-2", "doc-2"),
		notice(t, resource.Messages, "Message to doc-1", "sup-1", "doc-1"),
		notice(t, resource.Messages, "Message between others", "sup-1", "doc-2"),
	}}

	_, body := serveAs(t, broker, "doc-1", model.RoleDoctor)
	assert.Contains(t, body, "Appointment for doc-1")
	assert.Contains(t, body, "Message to doc-1")
	assert.NotContains(t, body, "Appointment for doc-2")
	assert.NotContains(t, body, "Message between others")

	_, body = serveAs(t, broker, "sup-2", model.RoleSupport)
	assert.Contains(t, body, "Appointment for doc-1")
	assert.Contains(t, body, "Appointment for doc-2")
	assert.NotContains(t, body, "Message to doc-1")

	_, body = serveAs(t, broker, "admin-1", model.RoleAdmin)
	assert.Equal(t, 4, strings.Count(body, "event:notice"))
}

func TestStreamSubscribeFailure(t *testing.T) {
	resp, _ := serve(t, &replayBroker{err: errors.New("redis: connection refused")}, model.RoleAdmin)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
