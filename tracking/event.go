package tracking

import (
	"errors"
	"fmt"

	"redblack/infra/changelog"
)

type EventKind string

const (
	KindInsert   EventKind = "insert"
	KindRotation EventKind = "rotation"
	KindColor    EventKind = "color"
)

const eventVersion = 1

var ErrUnknownEvent = errors.New("tracking: unknown event kind")

// Event is one tree change. Keys are rendered with fmt.Sprint.
type Event struct {
	V         int       `json:"v"`
	Seq       uint64    `json:"seq"`
	Kind      EventKind `json:"kind"`
	Key       string    `json:"key,omitempty"`
	Direction string    `json:"direction,omitempty"`
	Color     string    `json:"color,omitempty"`
	Time      int64     `json:"time"`
}

func (e Event) String() string {
	switch e.Kind {
	case KindInsert:
		return fmt.Sprintf("#%d insert %s", e.Seq, e.Key)
	case KindRotation:
		return fmt.Sprintf("#%d rotate %s", e.Seq, e.Direction)
	case KindColor:
		return fmt.Sprintf("#%d color %s %s", e.Seq, e.Key, e.Color)
	default:
		return fmt.Sprintf("#%d %s", e.Seq, e.Kind)
	}
}

// RecordKind maps an event kind onto its change log frame kind.
func RecordKind(k EventKind) (changelog.Kind, error) {
	switch k {
	case KindInsert:
		return changelog.KindInsert, nil
	case KindRotation:
		return changelog.KindRotation, nil
	case KindColor:
		return changelog.KindColor, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownEvent, k)
	}
}
