package changelog

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log"
	"os"
)

const DefaultSegmentSize = 2 * 1024 * 1024

var ErrClosed = errors.New("changelog: log is closed")

type Config struct {
	Dir         string
	SegmentSize int64
	// SyncEveryAppend fsyncs after each frame.
	SyncEveryAppend bool
}

// Log appends records to the newest segment in Dir. It is not safe for
// concurrent use.
type Log struct {
	dir      string
	segSize  int64
	syncEach bool

	current  *segment
	segIndex int
	lastSeq  uint64
}

// Open opens the log in cfg.Dir, continuing the newest existing segment.
// A partially written frame at the end of that segment is cut off first so
// new frames follow the last complete one.
func Open(cfg Config) (*Log, error) {
	if cfg.Dir == "" {
		return nil, errors.New("changelog: empty dir")
	}
	if cfg.SegmentSize <= 0 {
		cfg.SegmentSize = DefaultSegmentSize
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, err
	}

	idx := 0
	var lastSeq uint64
	files, err := listSegments(cfg.Dir)
	if err != nil {
		return nil, err
	}
	if len(files) > 0 {
		newest := files[len(files)-1]
		if idx, err = segmentIndex(newest); err != nil {
			return nil, fmt.Errorf("changelog: bad segment name: %w", err)
		}
		if lastSeq, err = repairTail(newest); err != nil {
			return nil, err
		}
	}

	seg, err := openSegment(cfg.Dir, idx)
	if err != nil {
		return nil, err
	}

	return &Log{
		dir:      cfg.Dir,
		segSize:  cfg.SegmentSize,
		syncEach: cfg.SyncEveryAppend,
		current:  seg,
		segIndex: idx,
		lastSeq:  lastSeq,
	}, nil
}

// repairTail truncates a torn trailing frame from the segment at path and
// returns the highest sequence number left in it.
func repairTail(path string) (uint64, error) {
	valid, lastSeq, err := scanSegment(path)
	if err != nil {
		return 0, fmt.Errorf("changelog: %s: %w", path, err)
	}
	st, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	if st.Size() > valid {
		log.Printf("[changelog] truncating torn tail of %s: %d -> %d bytes", path, st.Size(), valid)
		if err := os.Truncate(path, valid); err != nil {
			return 0, err
		}
	}
	return lastSeq, nil
}

// Append frames r and writes it. Sequence numbers must increase.
func (l *Log) Append(r *Record) error {
	if l.current == nil {
		return ErrClosed
	}
	if r.Seq <= l.lastSeq {
		return fmt.Errorf("%w: %d after %d", ErrNonMonotonic, r.Seq, l.lastSeq)
	}

	buf := encodeFrame(r)
	if err := l.current.append(buf); err != nil {
		return err
	}
	l.lastSeq = r.Seq

	if l.syncEach {
		if err := l.current.sync(); err != nil {
			return err
		}
	}
	if l.current.offset >= l.segSize {
		return l.rotate()
	}
	return nil
}

// SetLastSeq tells the log the highest sequence already on disk, so later
// appends are checked against it.
func (l *Log) SetLastSeq(seq uint64) {
	l.lastSeq = seq
}

func (l *Log) Sync() error {
	if l.current == nil {
		return ErrClosed
	}
	return l.current.sync()
}

func (l *Log) Close() error {
	if l.current == nil {
		return nil
	}
	err := l.current.sync()
	if cerr := l.current.close(); err == nil {
		err = cerr
	}
	l.current = nil
	return err
}

func (l *Log) rotate() error {
	if err := l.current.sync(); err != nil {
		return err
	}
	_ = l.current.close()
	l.segIndex++

	seg, err := openSegment(l.dir, l.segIndex)
	if err != nil {
		l.current = nil
		return err
	}
	l.current = seg
	return nil
}

func encodeFrame(r *Record) []byte {
	payloadLen := uint32(len(r.Data))
	buf := make([]byte, headerSize+int(payloadLen)+crcSize)

	buf[0] = byte(r.Kind)
	binary.BigEndian.PutUint64(buf[1:9], r.Seq)
	binary.BigEndian.PutUint64(buf[9:17], uint64(r.Time))
	binary.BigEndian.PutUint32(buf[17:21], payloadLen)
	copy(buf[headerSize:], r.Data)

	end := headerSize + int(payloadLen)
	binary.BigEndian.PutUint32(buf[end:], checksum(buf[:end]))
	return buf
}
