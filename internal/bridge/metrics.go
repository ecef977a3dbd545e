package bridge

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bnema/jsbridge/internal/domain/entity"
)

// unknownMethodLabel replaces page-supplied names that are not registered,
// keeping label cardinality bounded.
const unknownMethodLabel = "_unknown"

// Metrics records dispatch counts and latencies. A nil *Metrics is a no-op.
type Metrics struct {
	invocations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// NewMetrics registers the bridge collectors on reg. Collectors that are
// already registered are reused, so several bridges can share a registry.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	invocations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jsbridge",
		Name:      "invocations_total",
		Help:      "Bridge invocations by method and outcome.",
	}, []string{"method", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "jsbridge",
		Name:      "invocation_duration_seconds",
		Help:      "Time spent dispatching a bridge invocation.",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
	}, []string{"method"})

	var err error
	if invocations, err = registerOrReuse(reg, invocations); err != nil {
		return nil, err
	}
	if duration, err = registerOrReuse(reg, duration); err != nil {
		return nil, err
	}
	return &Metrics{invocations: invocations, duration: duration}, nil
}

func registerOrReuse[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (m *Metrics) observe(method string, outcome entity.Outcome, elapsed time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = unknownMethodLabel
	}
	m.invocations.WithLabelValues(method, outcome.String()).Inc()
	m.duration.WithLabelValues(method).Observe(elapsed.Seconds())
}
