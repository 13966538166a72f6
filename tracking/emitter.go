package tracking

import (
	"fmt"
	"time"

	"redblack/domain/rbtree"
	"redblack/infra/sequence"
)

// Sink receives sequenced events.
type Sink interface {
	Write(Event) error
}

type SinkFunc func(Event) error

func (f SinkFunc) Write(e Event) error { return f(e) }

// Emitter adapts tree callbacks into events. It is not safe for concurrent
// use; the tree it observes is single-writer anyway.
type Emitter[K any] struct {
	seq   *sequence.Sequencer
	sinks []Sink
	now   func() time.Time
	err   error

	suspended bool
}

var _ rbtree.ChangeTracker[int] = (*Emitter[int])(nil)

// NewEmitter returns an emitter drawing sequence numbers from seq. A nil
// seq starts a fresh sequence at 1.
func NewEmitter[K any](seq *sequence.Sequencer, sinks ...Sink) *Emitter[K] {
	if seq == nil {
		seq = sequence.New(0)
	}
	return &Emitter[K]{seq: seq, sinks: sinks, now: time.Now}
}

func (e *Emitter[K]) TrackInsert(key K) {
	e.emit(Event{Kind: KindInsert, Key: fmt.Sprint(key)})
}

func (e *Emitter[K]) TrackRotation(dir rbtree.Direction) {
	e.emit(Event{Kind: KindRotation, Direction: dir.String()})
}

func (e *Emitter[K]) TrackColorChange(n *rbtree.Node[K]) {
	e.emit(Event{Kind: KindColor, Key: fmt.Sprint(n.Key()), Color: n.Color().String()})
}

// Err returns the first sink failure, if any.
func (e *Emitter[K]) Err() error { return e.err }

// Suspend stops emitting without consuming sequence numbers. Used while
// replaying the change log into a fresh tree.
func (e *Emitter[K]) Suspend() { e.suspended = true }

func (e *Emitter[K]) Resume() { e.suspended = false }

// Sequence returns the sequencer used to stamp events.
func (e *Emitter[K]) Sequence() *sequence.Sequencer { return e.seq }

func (e *Emitter[K]) emit(ev Event) {
	if e.err != nil || e.suspended {
		return
	}
	ev.V = eventVersion
	ev.Seq = e.seq.Next()
	ev.Time = e.now().UnixNano()

	for _, s := range e.sinks {
		if err := s.Write(ev); err != nil {
			e.err = fmt.Errorf("tracking: event %d: %w", ev.Seq, err)
			return
		}
	}
}
