package interfaces

import "time"

// Probe outcomes reported to Metrics.ObserveProbe.
const (
	ProbeOK      = "ok"
	ProbeTimeout = "timeout"
	ProbeError   = "error"
)

// Session events reported to Metrics.SessionEvent.
const (
	SessionOpened     = "opened"
	SessionStepped    = "stepped"
	SessionFinished   = "finished"
	SessionUnknown    = "unknown"
	SessionResumed    = "resumed"
	SessionDeregister = "deregistered"
	SessionExhausted  = "exhausted"
)

// Metrics records heartbeat and registration counters.
//
// Implemented by metrics.Nop and metrics.Prometheus.
//
//go:generate moq -stub -out mock/metrics.go -pkg mock . Metrics
type Metrics interface {
	// ObserveProbe records one finished probe with its outcome (ProbeOK, ProbeTimeout or ProbeError).
	ObserveProbe(outcome string, latency time.Duration)

	// SetTargets reports the number of targets held by a hub.
	SetTargets(n int)

	// SetServices reports the number of live services.
	SetServices(n int)

	// SessionEvent counts a registration protocol event.
	SessionEvent(event string)
}
