package rbtree

import "iter"

// Ascend yields keys in ascending order. Equal keys come out in insertion
// order.
func (t *Tree[K]) Ascend() iter.Seq[K] {
	return func(yield func(K) bool) {
		for n := t.min(t.root); n != nil; n = t.next(n) {
			if !yield(n.key) {
				return
			}
		}
	}
}

// Descend yields keys in descending order.
func (t *Tree[K]) Descend() iter.Seq[K] {
	return func(yield func(K) bool) {
		for n := t.max(t.root); n != nil; n = t.prev(n) {
			if !yield(n.key) {
				return
			}
		}
	}
}

// Keys returns all keys in ascending order.
func (t *Tree[K]) Keys() []K {
	out := make([]K, 0, t.size)
	for k := range t.Ascend() {
		out = append(out, k)
	}
	return out
}
