package registry

import "sync/atomic"

// Sequence is an interfaces.IDGenerator counting up from a start value.
type Sequence struct {
	last atomic.Uint64
}

// NewSequence returns a sequence whose first Next is start+1.
func NewSequence(start uint64) *Sequence {
	s := &Sequence{}
	s.last.Store(start)
	return s
}

func (s *Sequence) Next() uint64 {
	return s.last.Add(1)
}
