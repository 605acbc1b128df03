// Package entity serves every list resource through one generic handler:
// each request loads a fresh list controller, applies the query and the
// mutation, and answers with the controller's notice as the message.
package entity

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/practice-dashboard/internal/handler"
	"github.com/jwalitptl/practice-dashboard/internal/middleware"
	"github.com/jwalitptl/practice-dashboard/internal/notify"
	"github.com/jwalitptl/practice-dashboard/internal/resource"
	apperrors "github.com/jwalitptl/practice-dashboard/pkg/errors"
	"github.com/jwalitptl/practice-dashboard/pkg/httputil"
	"github.com/jwalitptl/practice-dashboard/pkg/listctl"
)

const searchParam = "search"

// CollectionObserver records how many entities a list request loaded.
type CollectionObserver interface {
	ObserveCollection(resource string, size int)
}

type Options struct {
	// Notifier receives every notice besides the per-request recorder,
	// typically a notify.Publisher.
	Notifier    listctl.Notifier
	Observer    listctl.Observer
	Collections CollectionObserver
	Logger      *zerolog.Logger
	Now         func() time.Time
}

// ListResponse is the body of a list request.
type ListResponse[T any] struct {
	Items    []T `json:"items"`
	Stats    any `json:"stats"`
	Total    int `json:"total"`
	Filtered int `json:"filtered"`
}

type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type Handler[T any, In any] struct {
	def   resource.Definition[T, In]
	store listctl.Store[T]
	opts  Options
}

func NewHandler[T any, In any](def resource.Definition[T, In], store listctl.Store[T], opts Options) *Handler[T, In] {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Handler[T, In]{def: def, store: store, opts: opts}
}

func (h *Handler[T, In]) Name() string    { return h.def.Name() }
func (h *Handler[T, In]) AdminOnly() bool { return h.def.AdminOnly }

// RegisterRoutes mounts the resource under its name. guards run before
// every route, e.g. role and policy checks.
func (h *Handler[T, In]) RegisterRoutes(r *gin.RouterGroup, guards ...gin.HandlerFunc) {
	g := r.Group("/"+h.def.Name(), guards...)
	{
		g.GET("", h.List)
		g.GET("/:id", h.Get)
		g.POST("", h.Create)
		g.PATCH("/:id/status", h.UpdateStatus)
		g.DELETE("/:id", h.Remove)
	}
}

// load builds the request's controller and fills it from the store.
func (h *Handler[T, In]) load(c *gin.Context) (*listctl.Controller[T], *notify.Recorder, bool) {
	rec := &notify.Recorder{}
	ctl := listctl.New(h.def.Schema, h.store, listctl.Options{
		Notifier: notify.Multi{rec, h.opts.Notifier},
		Observer: h.opts.Observer,
		Logger:   h.opts.Logger,
		Now:      h.opts.Now,
	})
	if err := ctl.Load(c.Request.Context()); err != nil {
		handler.Fail(c, h.def.Name(), err)
		return nil, nil, false
	}
	if h.opts.Collections != nil {
		h.opts.Collections.ObserveCollection(h.def.Name(), ctl.Len())
	}
	return ctl, rec, true
}

// List answers GET /<resource>?search=&<filter>=. Query keys that are
// neither the search term nor a filter of the resource are ignored.
func (h *Handler[T, In]) List(c *gin.Context) {
	ctl, _, ok := h.load(c)
	if !ok {
		return
	}

	query := c.Request.URL.Query()
	if query.Has(searchParam) {
		ctl.SetSearch(strings.TrimSpace(query.Get(searchParam)))
	}
	for name := range h.def.Schema.Filters {
		if !query.Has(name) {
			continue
		}
		if err := ctl.SetFilter(name, query.Get(name)); err != nil {
			handler.Fail(c, h.def.Name(), err)
			return
		}
	}

	items := ctl.Filtered()
	if items == nil {
		items = []T{}
	}
	httputil.RespondWithSuccess(c, "", ListResponse[T]{
		Items:    items,
		Stats:    ctl.DeriveStats(),
		Total:    ctl.Len(),
		Filtered: len(items),
	})
}

func (h *Handler[T, In]) Get(c *gin.Context) {
	ctl, _, ok := h.load(c)
	if !ok {
		return
	}
	e, found := ctl.Get(c.Param("id"))
	if !found {
		handler.Fail(c, h.def.Name(), apperrors.NotFound(h.def.Name(), nil))
		return
	}
	h.setETag(c, e)
	httputil.RespondWithSuccess(c, "", e)
}

func (h *Handler[T, In]) Create(c *gin.Context) {
	if h.def.Schema.ReadOnly || h.def.Build == nil {
		handler.Fail(c, h.def.Name(), apperrors.Forbidden(fmt.Sprintf("%s are read-only", h.def.Name()), nil))
		return
	}

	var in In
	if !handler.Bind(c, &in) {
		return
	}

	ctl, rec, ok := h.load(c)
	if !ok {
		return
	}
	draft := h.def.Build(in, middleware.CurrentProfile(c), h.opts.Now())
	stored, err := ctl.Create(c.Request.Context(), draft)
	if err != nil {
		handler.Fail(c, h.def.Name(), err)
		return
	}

	h.setETag(c, stored)
	httputil.RespondWithCreated(c, message(rec), stored)
}

// UpdateStatus answers PATCH /<resource>/:id/status. An If-Match header
// carrying the entity's ETag turns on the concurrent modification check.
func (h *Handler[T, In]) UpdateStatus(c *gin.Context) {
	var req StatusRequest
	if !handler.Bind(c, &req) {
		return
	}

	var opts []listctl.UpdateOption
	if v := c.GetHeader("If-Match"); v != "" {
		version, err := parseVersion(v)
		if err != nil {
			handler.Fail(c, h.def.Name(), apperrors.BadRequest("malformed If-Match header", err))
			return
		}
		opts = append(opts, listctl.IfVersion(version))
	}

	ctl, rec, ok := h.load(c)
	if !ok {
		return
	}
	updated, err := ctl.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status, opts...)
	if err != nil {
		handler.Fail(c, h.def.Name(), err)
		return
	}

	h.setETag(c, updated)
	httputil.RespondWithSuccess(c, message(rec), updated)
}

// Remove answers DELETE /<resource>/:id?confirm=true.
func (h *Handler[T, In]) Remove(c *gin.Context) {
	confirmed, _ := strconv.ParseBool(c.Query("confirm"))

	ctl, rec, ok := h.load(c)
	if !ok {
		return
	}
	if err := ctl.Remove(c.Request.Context(), c.Param("id"), listctl.Confirmed(confirmed)); err != nil {
		handler.Fail(c, h.def.Name(), err)
		return
	}
	httputil.RespondWithSuccess(c, message(rec), nil)
}

func (h *Handler[T, In]) setETag(c *gin.Context, e T) {
	if h.def.Schema.Version == nil {
		return
	}
	c.Header("ETag", strconv.Quote(h.def.Schema.Version(e).UTC().Format(time.RFC3339Nano)))
}

func parseVersion(v string) (time.Time, error) {
	v = strings.TrimPrefix(strings.TrimSpace(v), "W/")
	if unquoted, err := strconv.Unquote(v); err == nil {
		v = unquoted
	}
	return time.Parse(time.RFC3339Nano, v)
}

func message(rec *notify.Recorder) string {
	if n, ok := rec.Last(); ok {
		return n.Message
	}
	return ""
}
