// Package memory holds process-local repositories backed by go-cache.
// Collections that have no table yet (billing, staff, inventory, workflows,
// security) live here and are seeded from fixtures at startup.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/jwalitptl/practice-dashboard/internal/repository"
	"github.com/jwalitptl/practice-dashboard/pkg/listctl"
)

type record[T any] struct {
	seq   int64
	value T
}

// Hooks stamp identity and timestamps on stored entities. Status and
// Version read the fields an update's listctl.Expect is checked against;
// either may be nil.
type Hooks[T any] struct {
	ID      func(T) string
	Assign  func(e T, id string, now time.Time) T
	Touch   func(e T, now time.Time) T
	Status  func(T) string
	Version func(T) time.Time
}

// Store is a listctl.Store kept in memory. List returns newest first.
type Store[T any] struct {
	mu    sync.Mutex
	items *cache.Cache
	seq   int64
	hooks Hooks[T]
	now   func() time.Time
}

var _ listctl.Store[struct{}] = (*Store[struct{}])(nil)

func NewStore[T any](hooks Hooks[T]) *Store[T] {
	return &Store[T]{
		items: cache.New(cache.NoExpiration, 0),
		hooks: hooks,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Seed stores entities as-is. The first argument ends up first in List.
func (s *Store[T]) Seed(entities ...T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(entities) - 1; i >= 0; i-- {
		s.seq++
		s.items.Set(s.hooks.ID(entities[i]), record[T]{seq: s.seq, value: entities[i]}, cache.NoExpiration)
	}
}

func (s *Store[T]) List(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	records := make([]record[T], 0, s.items.ItemCount())
	for _, item := range s.items.Items() {
		records = append(records, item.Object.(record[T]))
	}
	s.mu.Unlock()

	slices.SortFunc(records, func(a, b record[T]) int {
		return cmp.Compare(b.seq, a.seq)
	})
	out := make([]T, len(records))
	for i, r := range records {
		out[i] = r.value
	}
	return out, nil
}

func (s *Store[T]) Create(ctx context.Context, e T) (T, error) {
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e = s.hooks.Assign(e, uuid.NewString(), s.now())
	s.seq++
	s.items.Set(s.hooks.ID(e), record[T]{seq: s.seq, value: e}, cache.NoExpiration)
	return e, nil
}

// Update replaces the stored entity if it still matches expect.
func (s *Store[T]) Update(ctx context.Context, e T, expect listctl.Expect) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.hooks.ID(e)
	item, ok := s.items.Get(id)
	if !ok {
		return zero, repository.ErrNotFound
	}
	existing := item.(record[T])
	if s.stale(existing.value, expect) {
		return zero, listctl.ErrStale
	}
	if s.hooks.Touch != nil {
		e = s.hooks.Touch(e, s.now())
	}
	s.items.Set(id, record[T]{seq: existing.seq, value: e}, cache.NoExpiration)
	return e, nil
}

func (s *Store[T]) stale(stored T, expect listctl.Expect) bool {
	if expect.Status != "" && s.hooks.Status != nil && s.hooks.Status(stored) != expect.Status {
		return true
	}
	if !expect.Version.IsZero() && s.hooks.Version != nil && !s.hooks.Version(stored).Equal(expect.Version) {
		return true
	}
	return false
}

func (s *Store[T]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items.Get(id); !ok {
		return repository.ErrNotFound
	}
	s.items.Delete(id)
	return nil
}
