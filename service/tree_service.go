package service

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"redblack/domain/rbtree"
	"redblack/tracking"
)

// ErrTrackerFailed is returned once change tracking has failed. The insert
// that hit the failure is applied in memory; later inserts are refused so
// the tree never runs ahead of its change log by more than one key.
var ErrTrackerFailed = errors.New("service: change tracking failed")

/*
TreeService owns the tree. All coordination between
- domain (rbtree)
- tracking (emitter + sinks)
happens here.
*/
type TreeService[K any] struct {
	mu      sync.RWMutex
	tree    *rbtree.Tree[K]
	emitter *tracking.Emitter[K]
}

// NewTreeService wires a tree to the emitter it was built with. emitter may
// be nil when the tree is untracked.
func NewTreeService[K any](tree *rbtree.Tree[K], emitter *tracking.Emitter[K]) *TreeService[K] {
	return &TreeService[K]{tree: tree, emitter: emitter}
}

// Stats is a point-in-time summary of the tree.
type Stats[K any] struct {
	Size    int
	Height  int
	RootKey K
	Empty   bool
	LastSeq uint64
}

//
// ──────────────────────────────────────────────────────────
// Commands
// ──────────────────────────────────────────────────────────
//

// Insert adds key to the tree.
func (s *TreeService[K]) Insert(key K) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.trackerErr(); err != nil {
		return err
	}
	s.tree.Insert(key)
	return s.trackerErr()
}

//
// ──────────────────────────────────────────────────────────
// Queries
// ──────────────────────────────────────────────────────────
//

func (s *TreeService[K]) Search(key K) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.Search(key)
}

// Keys returns every key in ascending order.
func (s *TreeService[K]) Keys() []K {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.Keys()
}

func (s *TreeService[K]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.Len()
}

func (s *TreeService[K]) Stats() Stats[K] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats[K]{
		Size:   s.tree.Len(),
		Height: s.tree.Height(),
		Empty:  s.tree.Root() == nil,
	}
	if !st.Empty {
		st.RootKey = s.tree.Root().Key()
	}
	if s.emitter != nil {
		st.LastSeq = s.emitter.Sequence().Current()
	}
	return st
}

// Verify checks the tree's invariants.
func (s *TreeService[K]) Verify() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.Verify()
}

func (s *TreeService[K]) trackerErr() error {
	if s.emitter == nil {
		return nil
	}
	if err := s.emitter.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrTrackerFailed, err)
	}
	return nil
}

// ParseInt64 parses keys recorded by an int64 tree.
func ParseInt64(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}
