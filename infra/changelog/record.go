package changelog

import (
	"hash/crc32"
	"time"
)

// Kind tags what a record describes.
type Kind uint8

const (
	KindInsert Kind = iota + 1
	KindRotation
	KindColor
)

func (k Kind) String() string {
	switch k {
	case KindInsert:
		return "insert"
	case KindRotation:
		return "rotation"
	case KindColor:
		return "color"
	default:
		return "unknown"
	}
}

// Record is one framed log entry. Data is an encoded event.
type Record struct {
	Kind Kind
	Seq  uint64
	Time int64
	Data []byte
}

func NewRecord(k Kind, seq uint64, data []byte) *Record {
	return &Record{
		Kind: k,
		Seq:  seq,
		Time: time.Now().UnixNano(),
		Data: data,
	}
}

const (
	headerSize = 1 + 8 + 8 + 4
	crcSize    = 4
)

func checksum(data []byte) uint32 {
	return crc32.ChecksumIEEE(data)
}
