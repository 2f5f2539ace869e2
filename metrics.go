package platter

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/the8472/platter-walk/prefetch"
)

// Metrics holds the Prometheus instruments a Scanner updates, plus the
// Prefetcher's own instruments. Registration happens once, in
// NewMetrics; a Scanner with no Metrics wired behaves identically, just
// without the bookkeeping.
type Metrics struct {
	dirsOpened     prometheus.Counter
	entriesYielded prometheus.Counter

	prefetch *prefetch.Metrics
}

// NewMetrics constructs a Metrics set under namespace and registers it
// against reg (which may be nil to skip registration, e.g. in tests).
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		dirsOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "walk",
			Name:      "dirs_opened_total",
			Help:      "Number of directories opened during the scan.",
		}),
		entriesYielded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "walk",
			Name:      "entries_yielded_total",
			Help:      "Number of entries yielded to the caller.",
		}),
		prefetch: prefetch.NewMetrics(namespace, reg),
	}

	if reg != nil {
		reg.MustRegister(m.dirsOpened, m.entriesYielded)
	}

	return m
}
