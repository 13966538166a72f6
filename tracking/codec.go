package tracking

import (
	"encoding/json"
	"fmt"
	"strconv"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Codec turns events into bytes for durable sinks.
type Codec interface {
	Encode(Event) ([]byte, error)
	Decode([]byte) (Event, error)
}

// ---------- JSON ----------

type JSONCodec struct{}

func (JSONCodec) Encode(e Event) ([]byte, error) {
	return json.Marshal(e)
}

func (JSONCodec) Decode(b []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(b, &e); err != nil {
		return Event{}, err
	}
	return e, validKind(e)
}

// ---------- Protobuf ----------

// ProtoCodec encodes events as a google.protobuf.Struct. Integers travel as
// decimal strings so 64-bit values survive the float64 number type.
type ProtoCodec struct{}

var deterministic = proto.MarshalOptions{Deterministic: true}

func (ProtoCodec) Encode(e Event) ([]byte, error) {
	s := &structpb.Struct{Fields: map[string]*structpb.Value{
		"v":    structpb.NewStringValue(strconv.Itoa(e.V)),
		"seq":  structpb.NewStringValue(strconv.FormatUint(e.Seq, 10)),
		"kind": structpb.NewStringValue(string(e.Kind)),
		"time": structpb.NewStringValue(strconv.FormatInt(e.Time, 10)),
	}}
	if e.Key != "" {
		s.Fields["key"] = structpb.NewStringValue(e.Key)
	}
	if e.Direction != "" {
		s.Fields["direction"] = structpb.NewStringValue(e.Direction)
	}
	if e.Color != "" {
		s.Fields["color"] = structpb.NewStringValue(e.Color)
	}
	return deterministic.Marshal(s)
}

func (ProtoCodec) Decode(b []byte) (Event, error) {
	var s structpb.Struct
	if err := proto.Unmarshal(b, &s); err != nil {
		return Event{}, err
	}
	str := func(name string) string { return s.GetFields()[name].GetStringValue() }

	var (
		e   Event
		err error
	)
	if e.V, err = strconv.Atoi(str("v")); err != nil {
		return Event{}, fmt.Errorf("tracking: bad version: %w", err)
	}
	if e.Seq, err = strconv.ParseUint(str("seq"), 10, 64); err != nil {
		return Event{}, fmt.Errorf("tracking: bad seq: %w", err)
	}
	if e.Time, err = strconv.ParseInt(str("time"), 10, 64); err != nil {
		return Event{}, fmt.Errorf("tracking: bad time: %w", err)
	}
	e.Kind = EventKind(str("kind"))
	e.Key = str("key")
	e.Direction = str("direction")
	e.Color = str("color")
	return e, validKind(e)
}

func validKind(e Event) error {
	switch e.Kind {
	case KindInsert, KindRotation, KindColor:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, e.Kind)
	}
}

// CodecByName resolves "json" or "proto".
func CodecByName(name string) (Codec, error) {
	switch name {
	case "", "json":
		return JSONCodec{}, nil
	case "proto", "protobuf":
		return ProtoCodec{}, nil
	default:
		return nil, fmt.Errorf("tracking: unknown codec %q", name)
	}
}
