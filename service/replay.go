package service

import (
	"fmt"
	"log"

	"redblack/infra/changelog"
	"redblack/tracking"
)

/*
Restore rebuilds the tree from the change log in dir.

IMPORTANT:
  - This MUST run before accepting traffic
  - Only insert records are applied; rotations and color changes are
    reproduced by the engine itself
*/
func (s *TreeService[K]) Restore(
	dir string,
	codec tracking.Codec,
	parse func(string) (K, error),
) (lastSeq uint64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.emitter != nil {
		s.emitter.Suspend()
		defer s.emitter.Resume()
	}

	inserted := 0
	lastSeq, err = changelog.Replay(dir, func(rec *changelog.Record) error {
		if rec.Kind != changelog.KindInsert {
			return nil
		}
		ev, err := codec.Decode(rec.Data)
		if err != nil {
			return fmt.Errorf("decode record %d: %w", rec.Seq, err)
		}
		key, err := parse(ev.Key)
		if err != nil {
			return fmt.Errorf("parse key of record %d: %w", rec.Seq, err)
		}
		s.tree.Insert(key)
		inserted++
		return nil
	})
	if err != nil {
		return lastSeq, err
	}

	// Resume sequencing AFTER replay
	if s.emitter != nil {
		s.emitter.Sequence().Reset(lastSeq)
	}

	log.Printf("[service] change log replay completed (last seq = %d, keys = %d)", lastSeq, inserted)
	return lastSeq, nil
}
