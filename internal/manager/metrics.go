package manager

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks client activity as Prometheus collectors. A nil *Metrics
// is valid and records nothing, so instrumentation stays optional.
type Metrics struct {
	actionsSent        *prometheus.CounterVec
	responsesMatched   prometheus.Counter
	responsesUnmatched prometheus.Counter
	framesDropped      prometheus.Counter
	events             *prometheus.CounterVec
	pendingRequests    prometheus.Gauge

	registerer prometheus.Registerer

	mu         sync.Mutex
	registered bool
}

func newCounter(name, help string) prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ami",
		Subsystem: "client",
		Name:      name,
		Help:      help,
	})
}

func newCounterVec(name, help string, labels []string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ami",
		Subsystem: "client",
		Name:      name,
		Help:      help,
	}, labels)
}

// NewMetrics creates the collector set. A nil registerer falls back to
// prometheus.DefaultRegisterer.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &Metrics{
		registerer:         registerer,
		actionsSent:        newCounterVec("actions_sent_total", "Total number of actions written to the transport", []string{"action"}),
		responsesMatched:   newCounter("responses_matched_total", "Total number of responses matched to a pending action"),
		responsesUnmatched: newCounter("responses_unmatched_total", "Total number of responses dropped for an unknown or missing ActionID"),
		framesDropped:      newCounter("frames_dropped_total", "Total number of inbound frames dropped as unclassifiable"),
		events:             newCounterVec("events_total", "Total number of events dispatched to subscribers", []string{"event"}),
		pendingRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ami",
			Subsystem: "client",
			Name:      "pending_requests",
			Help:      "Number of actions awaiting a response",
		}),
	}
}

// Register registers the collectors. Safe to call multiple times.
func (m *Metrics) Register() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.registered {
		return nil
	}

	collectors := []prometheus.Collector{
		m.actionsSent,
		m.responsesMatched,
		m.responsesUnmatched,
		m.framesDropped,
		m.events,
		m.pendingRequests,
	}
	for _, c := range collectors {
		if err := m.registerer.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}

	m.registered = true
	return nil
}

func (m *Metrics) recordActionSent(action string) {
	if m == nil {
		return
	}
	m.actionsSent.WithLabelValues(action).Inc()
}

func (m *Metrics) recordResponseMatched() {
	if m == nil {
		return
	}
	m.responsesMatched.Inc()
}

func (m *Metrics) recordResponseUnmatched() {
	if m == nil {
		return
	}
	m.responsesUnmatched.Inc()
}

func (m *Metrics) recordFrameDropped() {
	if m == nil {
		return
	}
	m.framesDropped.Inc()
}

func (m *Metrics) recordEvent(event string) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(event).Inc()
}

func (m *Metrics) setPending(n int) {
	if m == nil {
		return
	}
	m.pendingRequests.Set(float64(n))
}
