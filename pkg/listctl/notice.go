package listctl

import (
	"context"
	"time"
)

type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeFailure NoticeKind = "failure"
)

// Notice is the user-facing outcome of a controller operation.
type Notice struct {
	Resource  string     `json:"resource"`
	Kind      NoticeKind `json:"kind"`
	Operation string     `json:"operation"`
	Message   string     `json:"message"`
	EntityID  string     `json:"entity_id,omitempty"`

	// Audience lists the user ids the entity concerns, when the schema
	// names them.
	Audience []string  `json:"audience,omitempty"`
	At       time.Time `json:"at"`
}

// Notifier receives notices. Implementations must not block for long.
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

// Observer receives the outcome of every mutation, e.g. for metrics.
type Observer interface {
	ObserveMutation(resource, operation string, err error)
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, Notice) {}

type nopObserver struct{}

func (nopObserver) ObserveMutation(string, string, error) {}
