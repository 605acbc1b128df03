// Package listctl implements the list controller shared by every dashboard
// resource: load a collection, filter it by free text and categorical
// filters, derive statistics and apply confirmed mutations.
//
// Mutations are pessimistic: the store is written first and local state only
// changes once the store has confirmed. A Controller is not safe for
// concurrent use; each request owns its own.
package listctl

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	apperrors "github.com/jwalitptl/practice-dashboard/pkg/errors"
	"github.com/jwalitptl/practice-dashboard/pkg/validator"
)

const (
	OpLoad         = "load"
	OpCreate       = "create"
	OpUpdateStatus = "update_status"
	OpRemove       = "remove"
)

var defaultValidator = validator.New()

// Options carries the optional collaborators of a Controller.
type Options struct {
	Notifier  Notifier
	Observer  Observer
	Validator validator.Validator
	Logger    *zerolog.Logger
	Now       func() time.Time
}

type Controller[T any] struct {
	schema   Schema[T]
	store    Store[T]
	notifier Notifier
	observer Observer
	validate validator.Validator
	logger   zerolog.Logger
	now      func() time.Time

	entities []T
	search   string
	filters  map[string]string
	loading  bool
}

func New[T any](schema Schema[T], store Store[T], opts Options) *Controller[T] {
	c := &Controller[T]{
		schema:   schema,
		store:    store,
		notifier: opts.Notifier,
		observer: opts.Observer,
		validate: opts.Validator,
		now:      opts.Now,
		filters:  make(map[string]string, len(schema.Filters)),
	}
	if c.notifier == nil {
		c.notifier = nopNotifier{}
	}
	if c.observer == nil {
		c.observer = nopObserver{}
	}
	if c.validate == nil {
		c.validate = defaultValidator
	}
	if c.now == nil {
		c.now = time.Now
	}

	base := log.Logger
	if opts.Logger != nil {
		base = *opts.Logger
	}
	c.logger = base.With().Str("resource", schema.Name).Logger()

	for name := range schema.Filters {
		c.filters[name] = AllValues
	}
	return c
}

func (c *Controller[T]) Name() string  { return c.schema.Name }
func (c *Controller[T]) Loading() bool { return c.loading }
func (c *Controller[T]) Len() int      { return len(c.entities) }

// Entities returns a copy of the collection in display order.
func (c *Controller[T]) Entities() []T {
	return slices.Clone(c.entities)
}

// Get returns the entity with the given id.
func (c *Controller[T]) Get(id string) (T, bool) {
	if i := c.indexOf(id); i >= 0 {
		return c.entities[i], true
	}
	var zero T
	return zero, false
}

// Load replaces the collection with the store's contents. On failure the
// collection is left empty.
func (c *Controller[T]) Load(ctx context.Context) error {
	c.loading = true
	defer func() { c.loading = false }()

	items, err := c.store.List(ctx)
	if err != nil {
		c.entities = nil
		c.fail(ctx, OpLoad, "", nil, fmt.Sprintf("Failed to load %s", c.schema.Name), err)
		return fmt.Errorf("failed to load %s: %w", c.schema.Name, err)
	}

	c.entities = items
	c.observer.ObserveMutation(c.schema.Name, OpLoad, nil)
	return nil
}

// SetSearch sets the free-text term. An empty term matches everything.
func (c *Controller[T]) SetSearch(term string) {
	c.search = term
}

// SetFilter sets a categorical filter. An empty value resets it to AllValues.
func (c *Controller[T]) SetFilter(name, value string) error {
	if _, ok := c.schema.Filters[name]; !ok {
		return apperrors.BadRequest(fmt.Sprintf("unknown filter %q for %s", name, c.schema.Name), nil)
	}
	if value == "" {
		value = AllValues
	}
	c.filters[name] = value
	return nil
}

// ClearFilters resets the search term and every categorical filter.
func (c *Controller[T]) ClearFilters() {
	c.search = ""
	for name := range c.filters {
		c.filters[name] = AllValues
	}
}

// FilteredView yields, in display order, every entity matching the current
// search term and categorical filters. It is evaluated lazily on each range.
func (c *Controller[T]) FilteredView() iter.Seq[T] {
	return func(yield func(T) bool) {
		term := strings.ToLower(c.search)
		for _, e := range c.entities {
			if !c.matches(e, term) {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// Filtered collects FilteredView.
func (c *Controller[T]) Filtered() []T {
	return slices.Collect(c.FilteredView())
}

func (c *Controller[T]) matches(e T, term string) bool {
	if term != "" {
		found := false
		for _, field := range c.schema.TextFields {
			if strings.Contains(strings.ToLower(field(e)), term) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	for name, want := range c.filters {
		if want == AllValues {
			continue
		}
		if c.schema.Filters[name](e) != want {
			return false
		}
	}
	return true
}

// DeriveStats runs the resource's statistics over the full and filtered
// collections.
func (c *Controller[T]) DeriveStats() any {
	if c.schema.Stats == nil {
		return nil
	}
	return c.schema.Stats(c.Entities(), c.Filtered())
}

// Create validates draft, persists it and prepends the stored entity.
// An empty status is replaced by the lifecycle's initial status.
func (c *Controller[T]) Create(ctx context.Context, draft T) (T, error) {
	var zero T
	if err := c.writable(); err != nil {
		return zero, err
	}

	if c.schema.Lifecycle != nil {
		status := c.schema.Status(draft)
		if status == "" {
			draft = c.schema.SetStatus(draft, c.schema.Lifecycle.Initial())
		} else if !c.schema.Lifecycle.Known(status) {
			return zero, apperrors.Validation(fmt.Sprintf("unknown %s status %q", c.label(), status), nil)
		}
	}

	if err := c.validate.Validate(draft); err != nil {
		return zero, apperrors.Validation(err.Error(), err)
	}
	if c.schema.Validate != nil {
		if err := c.schema.Validate(draft); err != nil {
			return zero, apperrors.Validation(err.Error(), err)
		}
	}

	stored, err := c.store.Create(ctx, draft)
	if err != nil {
		c.fail(ctx, OpCreate, "", c.audience(draft), fmt.Sprintf("Failed to create %s", c.label()), err)
		return zero, fmt.Errorf("failed to create %s: %w", c.label(), err)
	}

	c.entities = slices.Insert(c.entities, 0, stored)
	c.succeed(ctx, OpCreate, c.schema.ID(stored), c.audience(stored), fmt.Sprintf("%s created successfully", capitalize(c.label())))
	return stored, nil
}

// UpdateOption tunes a status update.
type UpdateOption func(*updateOptions)

type updateOptions struct {
	version *time.Time
}

// IfVersion rejects the update with a conflict when the entity has changed
// since the caller last saw it.
func IfVersion(v time.Time) UpdateOption {
	return func(o *updateOptions) { o.version = &v }
}

// UpdateStatus moves the entity to status if the lifecycle allows it.
// Repeating the current status is a no-op success.
func (c *Controller[T]) UpdateStatus(ctx context.Context, id, status string, opts ...UpdateOption) (T, error) {
	var zero T
	if err := c.writable(); err != nil {
		return zero, err
	}

	var o updateOptions
	for _, opt := range opts {
		opt(&o)
	}

	i := c.indexOf(id)
	if i < 0 {
		return zero, apperrors.NotFound(c.label(), nil)
	}
	current := c.entities[i]

	if o.version != nil && c.schema.Version != nil && !c.schema.Version(current).Equal(*o.version) {
		return zero, apperrors.Conflict(fmt.Sprintf("%s was modified by someone else", c.label()), nil)
	}

	from := c.schema.Status(current)
	if c.schema.Lifecycle != nil {
		if err := c.schema.Lifecycle.Validate(from, status); err != nil {
			c.observer.ObserveMutation(c.schema.Name, OpUpdateStatus, err)
			if !c.schema.Lifecycle.Known(status) {
				return zero, apperrors.BadRequest(err.Error(), err)
			}
			return zero, apperrors.Conflict(err.Error(), err)
		}
	}

	if from == status {
		c.succeed(ctx, OpUpdateStatus, id, c.audience(current), fmt.Sprintf("%s is already %s", capitalize(c.label()), status))
		return current, nil
	}

	updated := c.schema.SetStatus(current, status)
	if c.schema.Stamp != nil {
		updated = c.schema.Stamp(updated, status, c.now())
	}

	expect := Expect{Status: from}
	if c.schema.Version != nil {
		expect.Version = c.schema.Version(current)
	}

	stored, err := c.store.Update(ctx, updated, expect)
	if errors.Is(err, ErrStale) {
		c.observer.ObserveMutation(c.schema.Name, OpUpdateStatus, err)
		return zero, apperrors.Conflict(fmt.Sprintf("%s was modified by someone else", c.label()), err)
	}
	if err != nil {
		c.fail(ctx, OpUpdateStatus, id, c.audience(current), fmt.Sprintf("Failed to update %s", c.label()), err)
		return zero, fmt.Errorf("failed to update %s status: %w", c.label(), err)
	}

	c.entities[i] = stored
	c.succeed(ctx, OpUpdateStatus, id, c.audience(stored), fmt.Sprintf("%s marked as %s", capitalize(c.label()), status))
	return stored, nil
}

// Remove deletes the entity after confirm agrees. A nil confirm counts as a
// refusal.
func (c *Controller[T]) Remove(ctx context.Context, id string, confirm Confirmer) error {
	if err := c.writable(); err != nil {
		return err
	}

	i := c.indexOf(id)
	if i < 0 {
		return apperrors.NotFound(c.label(), nil)
	}
	audience := c.audience(c.entities[i])

	if confirm == nil || !confirm(ctx, id) {
		return apperrors.ConfirmationRequired(c.label())
	}

	if err := c.store.Delete(ctx, id); err != nil {
		c.fail(ctx, OpRemove, id, audience, fmt.Sprintf("Failed to delete %s", c.label()), err)
		return fmt.Errorf("failed to delete %s: %w", c.label(), err)
	}

	c.entities = slices.Delete(c.entities, i, i+1)
	c.succeed(ctx, OpRemove, id, audience, fmt.Sprintf("%s deleted successfully", capitalize(c.label())))
	return nil
}

func (c *Controller[T]) writable() error {
	if c.schema.ReadOnly {
		return apperrors.Forbidden(fmt.Sprintf("%s are read-only", c.schema.Name), nil)
	}
	return nil
}

func (c *Controller[T]) indexOf(id string) int {
	return slices.IndexFunc(c.entities, func(e T) bool { return c.schema.ID(e) == id })
}

func (c *Controller[T]) label() string {
	if l := singular(c.schema.Name); l != "" {
		return l
	}
	return "entity"
}

func (c *Controller[T]) audience(e T) []string {
	if c.schema.Audience == nil {
		return nil
	}
	return c.schema.Audience(e)
}

func (c *Controller[T]) succeed(ctx context.Context, op, id string, audience []string, msg string) {
	c.observer.ObserveMutation(c.schema.Name, op, nil)
	c.notifier.Notify(ctx, Notice{
		Resource:  c.schema.Name,
		Kind:      NoticeSuccess,
		Operation: op,
		Message:   msg,
		EntityID:  id,
		Audience:  audience,
		At:        c.now(),
	})
}

func (c *Controller[T]) fail(ctx context.Context, op, id string, audience []string, msg string, err error) {
	c.observer.ObserveMutation(c.schema.Name, op, err)
	c.logger.Error().Err(err).Str("operation", op).Str("id", id).Msg(msg)
	c.notifier.Notify(ctx, Notice{
		Resource:  c.schema.Name,
		Kind:      NoticeFailure,
		Operation: op,
		Message:   msg,
		EntityID:  id,
		Audience:  audience,
		At:        c.now(),
	})
}

func singular(name string) string {
	name = strings.ReplaceAll(name, "-", " ")
	switch {
	case strings.HasSuffix(name, "ies"):
		return strings.TrimSuffix(name, "ies") + "y"
	case strings.HasSuffix(name, "s"):
		return strings.TrimSuffix(name, "s")
	default:
		return name
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
