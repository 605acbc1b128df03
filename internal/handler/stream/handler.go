// Package stream pushes list controller notices to signed-in dashboards as
// server-sent events.
package stream

import (
	"encoding/json"
	"io"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/practice-dashboard/internal/handler"
	"github.com/jwalitptl/practice-dashboard/internal/middleware"
	"github.com/jwalitptl/practice-dashboard/internal/model"
	"github.com/jwalitptl/practice-dashboard/internal/notify"
	"github.com/jwalitptl/practice-dashboard/internal/resource"
	"github.com/jwalitptl/practice-dashboard/pkg/authorize"
	"github.com/jwalitptl/practice-dashboard/pkg/listctl"
	"github.com/jwalitptl/practice-dashboard/pkg/messaging"
)

const defaultHeartbeat = 25 * time.Second

type Handler struct {
	broker    messaging.Broker
	authz     *authorize.Authorizer
	heartbeat time.Duration
	logger    *zerolog.Logger
}

func NewHandler(broker messaging.Broker, authz *authorize.Authorizer, heartbeat time.Duration, logger *zerolog.Logger) *Handler {
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}
	return &Handler{broker: broker, authz: authz, heartbeat: heartbeat, logger: logger}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/notices/stream", h.Stream)
}

// Stream forwards every notice about a resource the caller may read until
// the client goes away. Where the caller's lists are scoped to their own
// entities, so are the notices.
func (h *Handler) Stream(c *gin.Context) {
	ctx := c.Request.Context()
	var viewer model.Profile
	if p := middleware.CurrentProfile(c); p != nil {
		viewer = *p
	}

	notices, err := h.broker.Subscribe(ctx, notify.Channel)
	if err != nil {
		handler.Fail(c, "notice stream", err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case payload, ok := <-notices:
			if !ok {
				return false
			}
			if h.visible(viewer, payload) {
				c.SSEvent("notice", string(payload))
			}
			return true
		case <-ticker.C:
			c.SSEvent("ping", time.Now().UTC().Format(time.RFC3339))
			return true
		}
	})
}

func (h *Handler) visible(viewer model.Profile, payload []byte) bool {
	var n listctl.Notice
	if err := json.Unmarshal(payload, &n); err != nil {
		h.logger.Warn().Err(err).Msg("dropping malformed notice")
		return false
	}
	allowed, err := h.authz.Allowed(string(viewer.Role), n.Resource, authorize.ActionRead)
	if err != nil {
		h.logger.Error().Err(err).Str("resource", n.Resource).Msg("failed to check notice access")
		return false
	}
	if !allowed {
		return false
	}
	if resource.ScopedToParticipant(n.Resource, viewer.Role) {
		return slices.Contains(n.Audience, viewer.ID)
	}
	return true
}
