package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics holds all application metrics
type Metrics struct {
	// List controller mutations
	ListMutations *prometheus.CounterVec

	// Session metrics
	AuthEvents *prometheus.CounterVec

	// Notice fan-out
	NoticesPublished *prometheus.CounterVec

	// Memory-backed collection sizes
	CollectionSize *prometheus.GaugeVec
}

// NewMetrics creates and registers all application metrics on reg. Tests
// pass a fresh prometheus.NewRegistry() to avoid duplicate registration.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ListMutations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "list_mutations_total",
			Help:      "Total number of list mutations by resource, operation and outcome",
		}, []string{"resource", "operation", "outcome"}),
		AuthEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_events_total",
			Help:      "Total number of session operations by kind and outcome",
		}, []string{"event", "outcome"}),
		NoticesPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notices_published_total",
			Help:      "Total number of notices published to subscribers",
		}, []string{"resource", "kind"}),
		CollectionSize: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "collection_size",
			Help:      "Number of entities loaded by the last list request per resource",
		}, []string{"resource"}),
	}
}

func outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}

// ObserveMutation records a list mutation. It satisfies listctl.Observer.
func (m *Metrics) ObserveMutation(resource, op string, err error) {
	m.ListMutations.WithLabelValues(resource, op, outcome(err)).Inc()
}

func (m *Metrics) ObserveAuth(event string, err error) {
	m.AuthEvents.WithLabelValues(event, outcome(err)).Inc()
}

func (m *Metrics) ObserveNotice(resource, kind string) {
	m.NoticesPublished.WithLabelValues(resource, kind).Inc()
}

func (m *Metrics) ObserveCollection(resource string, size int) {
	m.CollectionSize.WithLabelValues(resource).Set(float64(size))
}
