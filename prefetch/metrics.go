package prefetch

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the Prometheus instruments the Prefetcher updates.
type Metrics struct {
	Hits        prometheus.Counter
	Misses      prometheus.Counter
	Cap         prometheus.Gauge
	Outstanding prometheus.Gauge
}

// NewMetrics constructs a Metrics set with the given namespace and, if
// reg is non-nil, registers every instrument against it.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "prefetch",
			Name:      "hits_total",
			Help:      "Number of entries consumed that had an outstanding read-ahead hint.",
		}),
		Misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "prefetch",
			Name:      "misses_total",
			Help:      "Number of entries consumed with no outstanding read-ahead hint.",
		}),
		Cap: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "prefetch",
			Name:      "cap",
			Help:      "Current adaptive read-ahead window cap.",
		}),
		Outstanding: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "prefetch",
			Name:      "outstanding_bytes",
			Help:      "Bytes currently hinted but not yet consumed.",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.Hits, m.Misses, m.Cap, m.Outstanding)
	}

	return m
}
