package listctl

import (
	"context"
	"time"

	apperrors "github.com/jwalitptl/practice-dashboard/pkg/errors"
	"github.com/jwalitptl/practice-dashboard/pkg/lifecycle"
)

// AllValues is the categorical filter value that disables the filter.
const AllValues = "all"

// Schema describes how a Controller reads and mutates one entity type.
type Schema[T any] struct {
	// Name identifies the resource in logs, metrics and notices.
	Name string

	ID        func(T) string
	Status    func(T) string
	SetStatus func(T, string) T

	// Version returns the optimistic concurrency token of an entity.
	// Optional; when nil, version checks are skipped.
	Version func(T) time.Time

	// Stamp applies terminal timestamps for the new status: set when
	// entering a terminal status, cleared otherwise. Optional.
	Stamp func(e T, status string, at time.Time) T

	Lifecycle *lifecycle.Machine

	// TextFields are the fields searched by the free-text term.
	TextFields []func(T) string

	// Filters are the categorical fields, keyed by query name.
	Filters map[string]func(T) string

	// Validate runs after struct tag validation on create. Optional.
	Validate func(T) error

	// Stats derives summary figures from the full and the filtered collection.
	Stats func(all, filtered []T) any

	// Audience names the users an entity concerns; it is copied onto every
	// notice about the entity. Optional.
	Audience func(T) []string

	// ReadOnly rejects every mutation.
	ReadOnly bool
}

// ErrStale is returned by Store.Update when the stored entity no longer
// matches the Expect the update was derived from.
var ErrStale = apperrors.Conflict("entity was modified concurrently", nil)

// Expect is the stored state an update was derived from. Empty fields are
// not compared.
type Expect struct {
	Status  string
	Version time.Time
}

// Store is the persistence collaborator behind a Controller.
// Create and Update return the canonical stored entity. Update must apply
// the write only if the stored entity still matches expect, atomically with
// the check, and return ErrStale otherwise.
type Store[T any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, entity T) (T, error)
	Update(ctx context.Context, entity T, expect Expect) (T, error)
	Delete(ctx context.Context, id string) error
}

// Confirmer answers the "are you sure?" step before a removal.
type Confirmer func(ctx context.Context, id string) bool

// Confirmed returns a Confirmer with a fixed answer.
func Confirmed(ok bool) Confirmer {
	return func(context.Context, string) bool { return ok }
}
