package metrics

import (
	"time"

	"myregistry/interfaces"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus implements interfaces.Metrics with prometheus collectors registered on construction.
type Prometheus struct {
	probes       *prometheus.CounterVec
	probeLatency *prometheus.HistogramVec
	targets      prometheus.Gauge
	services     prometheus.Gauge
	sessions     *prometheus.CounterVec
}

var _ interfaces.Metrics = (*Prometheus)(nil)

// NewPrometheus creates the registry collectors and registers them on reg.
// reg defaults to prometheus.DefaultRegisterer, namespace defaults to "registry".
// Panics when a collector with the same name is already registered on reg.
func NewPrometheus(reg prometheus.Registerer, namespace string) *Prometheus {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "registry"
	}

	p := &Prometheus{
		probes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "heartbeat",
			Name:      "probes_total",
			Help:      "Total heartbeat probes by outcome (ok, timeout, error).",
		}, []string{"outcome"}),
		probeLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "heartbeat",
			Name:      "probe_latency_seconds",
			Help:      "Heartbeat probe round trip in seconds by outcome.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms .. ~2s
		}, []string{"outcome"}),
		targets: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "heartbeat",
			Name:      "targets_current",
			Help:      "Current number of heartbeat targets held by the hub.",
		}),
		services: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      "services_live",
			Help:      "Current number of live services.",
		}),
		sessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      "session_events_total",
			Help:      "Registration protocol events (opened, stepped, finished, unknown, resumed, deregistered).",
		}, []string{"event"}),
	}

	reg.MustRegister(p.probes, p.probeLatency, p.targets, p.services, p.sessions)

	return p
}

func (p *Prometheus) ObserveProbe(outcome string, latency time.Duration) {
	p.probes.WithLabelValues(outcome).Inc()
	p.probeLatency.WithLabelValues(outcome).Observe(latency.Seconds())
}

func (p *Prometheus) SetTargets(n int) {
	p.targets.Set(float64(n))
}

func (p *Prometheus) SetServices(n int) {
	p.services.Set(float64(n))
}

func (p *Prometheus) SessionEvent(event string) {
	p.sessions.WithLabelValues(event).Inc()
}
