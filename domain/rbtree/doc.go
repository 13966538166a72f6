// Package rbtree implements the red-black tree engine: a self-balancing
// binary search tree with insertion and lookup, plus optional observers
// that narrate operations (Logger) and receive structural change events
// (ChangeTracker).
//
// The tree is a single-writer structure. Callers sharing a Tree across
// goroutines must provide their own mutual exclusion; see package service.
//
// Observers are called synchronously on the caller's goroutine. A panicking
// observer aborts the operation in progress and may leave the tree
// mid-rebalance.
package rbtree
