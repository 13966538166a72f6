package changelog

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	ErrCRCMismatch  = errors.New("changelog: crc mismatch")
	ErrNonMonotonic = errors.New("changelog: non-monotonic seq")
)

type ReplayHandler func(*Record) error

// Replay feeds every record in dir to fn in log order and returns the last
// sequence number seen. A partially written frame at the end of the newest
// segment is treated as the end of the log.
func Replay(dir string, fn ReplayHandler) (lastSeq uint64, err error) {
	files, err := listSegments(dir)
	if err != nil {
		return 0, err
	}

	for i, path := range files {
		last := i == len(files)-1
		lastSeq, err = replaySegment(path, last, lastSeq, fn)
		if err != nil {
			return lastSeq, err
		}
	}
	return lastSeq, nil
}

func replaySegment(path string, last bool, lastSeq uint64, fn ReplayHandler) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return lastSeq, err
	}
	defer f.Close()

	for {
		rec, err := readRecord(f)
		if err != nil {
			if err == io.EOF {
				return lastSeq, nil
			}
			if errors.Is(err, io.ErrUnexpectedEOF) && last {
				return lastSeq, nil
			}
			return lastSeq, fmt.Errorf("%s: %w", path, err)
		}

		if rec.Seq <= lastSeq {
			return lastSeq, fmt.Errorf("%w: %d after %d", ErrNonMonotonic, rec.Seq, lastSeq)
		}
		lastSeq = rec.Seq

		if err := fn(rec); err != nil {
			return lastSeq, err
		}
	}
}

func readRecord(r io.Reader) (*Record, error) {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}

	kind := Kind(header[0])
	seq := binary.BigEndian.Uint64(header[1:9])
	ts := binary.BigEndian.Uint64(header[9:17])
	l := binary.BigEndian.Uint32(header[17:21])

	data := make([]byte, int(l)+crcSize)
	if _, err := io.ReadFull(r, data); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}

	payload := data[:l]
	sum := binary.BigEndian.Uint32(data[l:])
	if checksum(append(header, payload...)) != sum {
		return nil, ErrCRCMismatch
	}

	return &Record{
		Kind: kind,
		Seq:  seq,
		Time: int64(ts),
		Data: payload,
	}, nil
}

// scanSegment walks the complete frames of a segment and returns the byte
// length they cover and the last sequence number among them. A partial
// frame at the end stops the scan; any other damage is an error.
func scanSegment(path string) (valid int64, lastSeq uint64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	for {
		rec, err := readRecord(f)
		if err != nil {
			if err == io.EOF || errors.Is(err, io.ErrUnexpectedEOF) {
				return valid, lastSeq, nil
			}
			return valid, lastSeq, err
		}
		valid += int64(headerSize + len(rec.Data) + crcSize)
		lastSeq = rec.Seq
	}
}
