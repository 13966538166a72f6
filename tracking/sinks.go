package tracking

import (
	"context"
	"time"

	"redblack/infra/changelog"
	"redblack/infra/outbox"
)

// ---------- change log ----------

// LogSink appends events to the on-disk change log.
type LogSink struct {
	log   *changelog.Log
	codec Codec
}

func NewLogSink(l *changelog.Log, c Codec) *LogSink {
	if c == nil {
		c = JSONCodec{}
	}
	return &LogSink{log: l, codec: c}
}

func (s *LogSink) Write(e Event) error {
	kind, err := RecordKind(e.Kind)
	if err != nil {
		return err
	}
	data, err := s.codec.Encode(e)
	if err != nil {
		return err
	}
	return s.log.Append(changelog.NewRecord(kind, e.Seq, data))
}

// ---------- outbox ----------

// OutboxSink stores events as NEW outbox entries for the broadcaster.
type OutboxSink struct {
	box   *outbox.Outbox
	codec Codec
}

func NewOutboxSink(box *outbox.Outbox, c Codec) *OutboxSink {
	if c == nil {
		c = JSONCodec{}
	}
	return &OutboxSink{box: box, codec: c}
}

func (s *OutboxSink) Write(e Event) error {
	data, err := s.codec.Encode(e)
	if err != nil {
		return err
	}
	return s.box.PutNew(e.Seq, data)
}

// ---------- stream ----------

// Publisher is satisfied by infra/kafka.Producer.
type Publisher interface {
	Send(ctx context.Context, key []byte, value []byte) error
}

const DefaultSendTimeout = 5 * time.Second

// StreamKey is the message key of every streamed event. One key keeps all
// of a tree's events on one partition, in sequence order.
const StreamKey = "rbtree"

// StreamSink publishes every event synchronously.
type StreamSink struct {
	pub     Publisher
	codec   Codec
	timeout time.Duration
}

func NewStreamSink(pub Publisher, c Codec, timeout time.Duration) *StreamSink {
	if c == nil {
		c = JSONCodec{}
	}
	if timeout <= 0 {
		timeout = DefaultSendTimeout
	}
	return &StreamSink{pub: pub, codec: c, timeout: timeout}
}

func (s *StreamSink) Write(e Event) error {
	data, err := s.codec.Encode(e)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.pub.Send(ctx, []byte(StreamKey), data)
}

// ---------- memory ----------

// Recorder keeps every event in memory.
type Recorder struct {
	events []Event
}

func (r *Recorder) Write(e Event) error {
	r.events = append(r.events, e)
	return nil
}

func (r *Recorder) Events() []Event { return r.events }

// Count returns how many recorded events have kind k.
func (r *Recorder) Count(k EventKind) int {
	n := 0
	for _, e := range r.events {
		if e.Kind == k {
			n++
		}
	}
	return n
}

func (r *Recorder) Reset() { r.events = r.events[:0] }
