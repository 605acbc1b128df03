// Package notify delivers list controller notices: back to the HTTP
// response that caused them and out to realtime subscribers.
package notify

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jwalitptl/practice-dashboard/pkg/listctl"
	"github.com/jwalitptl/practice-dashboard/pkg/messaging"
)

// Channel is the broker channel notices are published on.
const Channel = "dashboard.notices"

// Recorder keeps the notices raised while serving one request.
type Recorder struct {
	mu      sync.Mutex
	notices []listctl.Notice
}

func (r *Recorder) Notify(_ context.Context, n listctl.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

// Last returns the most recent notice, if any.
func (r *Recorder) Last() (listctl.Notice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return listctl.Notice{}, false
	}
	return r.notices[len(r.notices)-1], true
}

func (r *Recorder) All() []listctl.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]listctl.Notice(nil), r.notices...)
}

type Counter interface {
	ObserveNotice(resource, kind string)
}

// Publisher forwards notices to a message broker. Publishing failures are
// logged and never reach the caller.
type Publisher struct {
	broker  messaging.Broker
	counter Counter
	logger  *zerolog.Logger
}

func NewPublisher(broker messaging.Broker, counter Counter, logger *zerolog.Logger) *Publisher {
	return &Publisher{broker: broker, counter: counter, logger: logger}
}

func (p *Publisher) Notify(ctx context.Context, n listctl.Notice) {
	if err := p.broker.Publish(context.WithoutCancel(ctx), Channel, n); err != nil {
		p.logger.Warn().Err(err).Str("resource", n.Resource).Msg("failed to publish notice")
		return
	}
	if p.counter != nil {
		p.counter.ObserveNotice(n.Resource, string(n.Kind))
	}
}

// Multi fans a notice out to every notifier in order.
type Multi []listctl.Notifier

func (m Multi) Notify(ctx context.Context, n listctl.Notice) {
	for _, notifier := range m {
		if notifier != nil {
			notifier.Notify(ctx, n)
		}
	}
}
