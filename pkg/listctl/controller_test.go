package listctl

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/jwalitptl/practice-dashboard/pkg/errors"
	"github.com/jwalitptl/practice-dashboard/pkg/lifecycle"
)

type task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title" validate:"required"`
	Owner       string     `json:"owner"`
	Priority    string     `json:"priority" validate:"required"`
	Status      string     `json:"status"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type taskStats struct {
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	CompletionRate float64 `json:"completion_rate"`
	Visible        int     `json:"visible"`
}

var taskLifecycle = lifecycle.New("task", "open", lifecycle.Transitions{
	"open":        {"in-progress", "cancelled"},
	"in-progress": {"done", "cancelled"},
}, "done", "cancelled")

func taskSchema() Schema[task] {
	return Schema[task]{
		Name:      "tasks",
		ID:        func(t task) string { return t.ID },
		Status:    func(t task) string { return t.Status },
		SetStatus: func(t task, s string) task { t.Status = s; return t },
		Version:   func(t task) time.Time { return t.UpdatedAt },
		Stamp: func(t task, s string, at time.Time) task {
			if s == "done" {
				t.CompletedAt = &at
			} else {
				t.CompletedAt = nil
			}
			return t
		},
		Lifecycle:  taskLifecycle,
		TextFields: []func(task) string{func(t task) string { return t.Title }, func(t task) string { return t.Owner }},
		Filters: map[string]func(task) string{
			"status":   func(t task) string { return t.Status },
			"priority": func(t task) string { return t.Priority },
		},
		Stats: func(all, filtered []task) any {
			done := Count(all, func(t task) bool { return t.Status == "done" })
			return taskStats{
				Total:          len(all),
				Completed:      done,
				CompletionRate: Percent(float64(done), float64(len(all))),
				Visible:        len(filtered),
			}
		},
	}
}

// fakeStore is a func-field store; nil funcs fall back to an in-memory slice.
type fakeStore struct {
	items []task
	seq   int

	ListFunc   func(ctx context.Context) ([]task, error)
	CreateFunc func(ctx context.Context, t task) (task, error)
	UpdateFunc func(ctx context.Context, t task, expect Expect) (task, error)
	DeleteFunc func(ctx context.Context, id string) error

	updates int
	deletes int
}

func (s *fakeStore) List(ctx context.Context) ([]task, error) {
	if s.ListFunc != nil {
		return s.ListFunc(ctx)
	}
	return append([]task(nil), s.items...), nil
}

func (s *fakeStore) Create(ctx context.Context, t task) (task, error) {
	if s.CreateFunc != nil {
		return s.CreateFunc(ctx, t)
	}
	s.seq++
	t.ID = fmt.Sprintf("task-%d", s.seq)
	s.items = append([]task{t}, s.items...)
	return t, nil
}

func (s *fakeStore) Update(ctx context.Context, t task, expect Expect) (task, error) {
	s.updates++
	if s.UpdateFunc != nil {
		return s.UpdateFunc(ctx, t, expect)
	}
	return t, nil
}

func (s *fakeStore) Delete(ctx context.Context, id string) error {
	s.deletes++
	if s.DeleteFunc != nil {
		return s.DeleteFunc(ctx, id)
	}
	return nil
}

type recordingNotifier struct {
	notices []Notice
}

func (r *recordingNotifier) Notify(_ context.Context, n Notice) {
	r.notices = append(r.notices, n)
}

func (r *recordingNotifier) last() Notice {
	return r.notices[len(r.notices)-1]
}

func seededStore() *fakeStore {
	return &fakeStore{items: []task{
		{ID: "1", Title: "Call John about results", Owner: "Dr. Patel", Priority: "high", Status: "open"},
		{ID: "2", Title: "Order gloves", Owner: "Sam Reed", Priority: "low", Status: "in-progress"},
		{ID: "3", Title: "Review invoices", Owner: "Jane Smith", Priority: "high", Status: "done"},
	}}
}

func newLoaded(t *testing.T, store *fakeStore, n Notifier) *Controller[task] {
	t.Helper()
	c := New(taskSchema(), Store[task](store), Options{Notifier: n})
	require.NoError(t, c.Load(context.Background()))
	return c
}

func ids(items []task) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestLoadTogglesLoadingFlag(t *testing.T) {
	store := seededStore()
	c := New(taskSchema(), Store[task](store), Options{})

	var during bool
	store.ListFunc = func(ctx context.Context) ([]task, error) {
		during = c.Loading()
		return store.items, nil
	}

	require.NoError(t, c.Load(context.Background()))
	assert.True(t, during)
	assert.False(t, c.Loading())
	assert.Equal(t, 3, c.Len())
}

func TestLoadFailureLeavesCollectionEmpty(t *testing.T) {
	store := seededStore()
	notifier := &recordingNotifier{}
	c := newLoaded(t, store, notifier)

	store.ListFunc = func(ctx context.Context) ([]task, error) {
		return nil, errors.New("connection refused")
	}

	err := c.Load(context.Background())
	require.Error(t, err)
	assert.False(t, c.Loading())
	assert.Zero(t, c.Len())
	assert.Equal(t, NoticeFailure, notifier.last().Kind)
	assert.Equal(t, "Failed to load tasks", notifier.last().Message)
}

func TestFilteredViewSearchIsCaseInsensitiveAcrossFields(t *testing.T) {
	c := newLoaded(t, seededStore(), nil)

	c.SetSearch("JOHN")
	assert.Equal(t, []string{"1"}, ids(c.Filtered()))

	c.SetSearch("smith")
	assert.Equal(t, []string{"3"}, ids(c.Filtered()))

	c.SetSearch("")
	assert.Equal(t, []string{"1", "2", "3"}, ids(c.Filtered()))
}

func TestFilteredViewAndsCategoricalFilters(t *testing.T) {
	c := newLoaded(t, seededStore(), nil)

	require.NoError(t, c.SetFilter("priority", "high"))
	assert.Equal(t, []string{"1", "3"}, ids(c.Filtered()))

	require.NoError(t, c.SetFilter("status", "done"))
	assert.Equal(t, []string{"3"}, ids(c.Filtered()))

	c.SetSearch("gloves")
	assert.Empty(t, c.Filtered())

	require.NoError(t, c.SetFilter("status", AllValues))
	require.NoError(t, c.SetFilter("priority", ""))
	assert.Equal(t, []string{"2"}, ids(c.Filtered()))

	err := c.SetFilter("colour", "red")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrBadRequest))
}

func TestFilteredViewIsLazyAndRestartable(t *testing.T) {
	c := newLoaded(t, seededStore(), nil)
	view := c.FilteredView()

	var first []string
	for item := range view {
		first = append(first, item.ID)
		break
	}
	assert.Equal(t, []string{"1"}, first)

	require.NoError(t, c.SetFilter("priority", "low"))
	var second []string
	for item := range view {
		second = append(second, item.ID)
	}
	assert.Equal(t, []string{"2"}, second)
}

func TestDeriveStatsOverEmptyCollectionIsZero(t *testing.T) {
	c := newLoaded(t, &fakeStore{}, nil)

	stats := c.DeriveStats().(taskStats)
	assert.Equal(t, taskStats{}, stats)
}

func TestDeriveStatsUsesFullAndFilteredCollections(t *testing.T) {
	c := newLoaded(t, seededStore(), nil)
	require.NoError(t, c.SetFilter("priority", "high"))

	stats := c.DeriveStats().(taskStats)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Completed)
	assert.InDelta(t, 33.33, stats.CompletionRate, 0.01)
	assert.Equal(t, 2, stats.Visible)
}

func TestCreatePrependsStoredEntity(t *testing.T) {
	notifier := &recordingNotifier{}
	c := newLoaded(t, seededStore(), notifier)
	require.NoError(t, c.SetFilter("status", "done"))

	created, err := c.Create(context.Background(), task{Title: "Restock masks", Priority: "low"})
	require.NoError(t, err)
	assert.Equal(t, "task-1", created.ID)
	assert.Equal(t, "open", created.Status)

	c.ClearFilters()
	view := c.Filtered()
	require.Len(t, view, 4)
	assert.Equal(t, "task-1", view[0].ID)

	count := 0
	for _, it := range view {
		if it.ID == created.ID {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.Equal(t, NoticeSuccess, notifier.last().Kind)
	assert.Equal(t, "Task created successfully", notifier.last().Message)
}

func TestCreateValidationFailureLeavesStateUnchanged(t *testing.T) {
	store := seededStore()
	c := newLoaded(t, store, nil)

	_, err := c.Create(context.Background(), task{Owner: "nobody"})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrValidation))
	assert.Contains(t, err.Error(), "title is required")
	assert.Equal(t, 3, c.Len())
	assert.Zero(t, store.seq)

	_, err = c.Create(context.Background(), task{Title: "x", Priority: "low", Status: "archived"})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrValidation))
}

func TestCreateStoreFailureLeavesStateUnchanged(t *testing.T) {
	store := seededStore()
	notifier := &recordingNotifier{}
	c := newLoaded(t, store, notifier)
	store.CreateFunc = func(ctx context.Context, t task) (task, error) {
		return task{}, errors.New("insert failed")
	}

	_, err := c.Create(context.Background(), task{Title: "Restock masks", Priority: "low"})
	require.Error(t, err)
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, NoticeFailure, notifier.last().Kind)
}

func TestUpdateStatusStampsTerminalTimestamp(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	c := New(taskSchema(), Store[task](seededStore()), Options{Now: func() time.Time { return now }})
	require.NoError(t, c.Load(context.Background()))

	done, err := c.UpdateStatus(context.Background(), "2", "done")
	require.NoError(t, err)
	require.NotNil(t, done.CompletedAt)
	assert.Equal(t, now, *done.CompletedAt)

	got, ok := c.Get("2")
	require.True(t, ok)
	assert.Equal(t, "done", got.Status)
}

func TestUpdateStatusIsIdempotent(t *testing.T) {
	store := seededStore()
	c := newLoaded(t, store, nil)

	once, err := c.UpdateStatus(context.Background(), "1", "in-progress")
	require.NoError(t, err)
	twice, err := c.UpdateStatus(context.Background(), "1", "in-progress")
	require.NoError(t, err)

	assert.Equal(t, once, twice)
	assert.Equal(t, 1, store.updates)
}

func TestUpdateStatusRejectsInvalidTransition(t *testing.T) {
	store := seededStore()
	c := newLoaded(t, store, nil)

	_, err := c.UpdateStatus(context.Background(), "3", "open")
	require.Error(t, err)
	assert.True(t, errors.Is(err, lifecycle.ErrInvalidTransition))
	assert.True(t, apperrors.HasCode(err, apperrors.ErrConflict))

	_, err = c.UpdateStatus(context.Background(), "1", "teleported")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrBadRequest))

	got, _ := c.Get("3")
	assert.Equal(t, "done", got.Status)
	assert.Zero(t, store.updates)
}

func TestUpdateStatusStoreFailureLeavesStateUnchanged(t *testing.T) {
	store := seededStore()
	c := newLoaded(t, store, nil)
	store.UpdateFunc = func(ctx context.Context, t task, _ Expect) (task, error) {
		return task{}, errors.New("timeout")
	}

	_, err := c.UpdateStatus(context.Background(), "1", "cancelled")
	require.Error(t, err)
	got, _ := c.Get("1")
	assert.Equal(t, "open", got.Status)
}

func TestUpdateStatusVersionConflict(t *testing.T) {
	c := newLoaded(t, seededStore(), nil)

	_, err := c.UpdateStatus(context.Background(), "1", "cancelled", IfVersion(time.Now()))
	assert.True(t, apperrors.HasCode(err, apperrors.ErrConflict))

	_, err = c.UpdateStatus(context.Background(), "1", "cancelled", IfVersion(time.Time{}))
	assert.NoError(t, err)
}

func TestUpdateStatusPassesLoadedStateToStore(t *testing.T) {
	version := time.Date(2024, 3, 1, 9, 30, 0, 123456000, time.UTC)
	store := &fakeStore{items: []task{{ID: "1", Title: "Call back", Priority: "high", Status: "open", UpdatedAt: version}}}
	var got Expect
	store.UpdateFunc = func(_ context.Context, t task, expect Expect) (task, error) {
		got = expect
		return t, nil
	}
	c := newLoaded(t, store, nil)

	_, err := c.UpdateStatus(context.Background(), "1", "in-progress")
	require.NoError(t, err)
	assert.Equal(t, Expect{Status: "open", Version: version}, got)
}

func TestUpdateStatusStaleStoreIsConflict(t *testing.T) {
	store := seededStore()
	store.UpdateFunc = func(context.Context, task, Expect) (task, error) {
		return task{}, ErrStale
	}
	c := newLoaded(t, store, nil)

	_, err := c.UpdateStatus(context.Background(), "1", "cancelled")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrConflict))
	assert.ErrorIs(t, err, ErrStale)

	got, _ := c.Get("1")
	assert.Equal(t, "open", got.Status)
}

func TestNoticesCarryAudience(t *testing.T) {
	schema := taskSchema()
	schema.Audience = func(t task) []string { return []string{t.Owner} }
	notifier := &recordingNotifier{}
	c := New(schema, Store[task](seededStore()), Options{Notifier: notifier})
	require.NoError(t, c.Load(context.Background()))

	_, err := c.UpdateStatus(context.Background(), "2", "done")
	require.NoError(t, err)
	assert.Equal(t, []string{"Sam Reed"}, notifier.last().Audience)

	require.NoError(t, c.Remove(context.Background(), "1", Confirmed(true)))
	assert.Equal(t, []string{"Dr. Patel"}, notifier.last().Audience)
}

func TestUpdateStatusUnknownID(t *testing.T) {
	c := newLoaded(t, seededStore(), nil)

	_, err := c.UpdateStatus(context.Background(), "404", "done")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrNotFound))
}

func TestRemoveRequiresConfirmation(t *testing.T) {
	store := seededStore()
	c := newLoaded(t, store, nil)

	err := c.Remove(context.Background(), "2", Confirmed(false))
	assert.True(t, apperrors.HasCode(err, apperrors.ErrConfirmationRequired))
	err = c.Remove(context.Background(), "2", nil)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrConfirmationRequired))
	assert.Zero(t, store.deletes)
	assert.Equal(t, 3, c.Len())
}

func TestRemoveExcludesEntityFromLaterViews(t *testing.T) {
	c := newLoaded(t, seededStore(), nil)

	require.NoError(t, c.Remove(context.Background(), "2", Confirmed(true)))

	for item := range c.FilteredView() {
		assert.NotEqual(t, "2", item.ID)
	}
	c.SetSearch("gloves")
	assert.Empty(t, c.Filtered())
}

func TestRemoveStoreFailureKeepsEntity(t *testing.T) {
	store := seededStore()
	c := newLoaded(t, store, nil)
	store.DeleteFunc = func(ctx context.Context, id string) error {
		return apperrors.NotFound("task", nil)
	}

	err := c.Remove(context.Background(), "2", Confirmed(true))
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrNotFound))
	assert.Equal(t, 3, c.Len())
}

func TestReadOnlySchemaRejectsMutations(t *testing.T) {
	schema := taskSchema()
	schema.ReadOnly = true
	c := New(schema, Store[task](seededStore()), Options{})
	require.NoError(t, c.Load(context.Background()))

	_, err := c.Create(context.Background(), task{Title: "x", Priority: "low"})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrForbidden))
	_, err = c.UpdateStatus(context.Background(), "1", "cancelled")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrForbidden))
	err = c.Remove(context.Background(), "1", Confirmed(true))
	assert.True(t, apperrors.HasCode(err, apperrors.ErrForbidden))
}
