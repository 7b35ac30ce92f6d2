package metrics

import (
	"time"

	"myregistry/interfaces"
)

// Nop discards every metric. Used when the caller does not configure metrics and in tests.
type Nop struct{}

var _ interfaces.Metrics = (*Nop)(nil)

func NewNop() *Nop {
	return &Nop{}
}

func (n *Nop) ObserveProbe(_ string, _ time.Duration) {}

func (n *Nop) SetTargets(_ int) {}

func (n *Nop) SetServices(_ int) {}

func (n *Nop) SessionEvent(_ string) {}
