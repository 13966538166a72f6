// Package sequence hands out the sequence numbers stamped on change events.
package sequence

import "sync/atomic"

// Sequencer issues strictly increasing event sequence numbers, starting
// after the value it was created or reset with.
type Sequencer struct {
	last atomic.Uint64
}

// New returns a sequencer whose first Next is start+1.
func New(start uint64) *Sequencer {
	s := &Sequencer{}
	s.last.Store(start)
	return s
}

// Next returns the next sequence number.
func (s *Sequencer) Next() uint64 {
	return s.last.Add(1)
}

// Current returns the last issued sequence number.
func (s *Sequencer) Current() uint64 {
	return s.last.Load()
}

// Reset moves the sequencer to v. Only used after change log replay.
func (s *Sequencer) Reset(v uint64) {
	s.last.Store(v)
}
