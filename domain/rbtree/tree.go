package rbtree

import (
	"cmp"
	"fmt"
)

// Tree is a red-black tree keyed by K. Equal keys are kept, each new one
// routed to the right of those already present.
type Tree[K any] struct {
	root    *Node[K]
	size    int
	compare func(a, b K) int

	logger  Logger
	tracker ChangeTracker[K]
}

// New returns an empty tree ordered by cmp.Compare.
func New[K cmp.Ordered](opts ...Option[K]) *Tree[K] {
	return NewFunc(cmp.Compare[K], opts...)
}

// NewFunc returns an empty tree ordered by compare, which must be a
// consistent total order returning a negative, zero or positive result.
func NewFunc[K any](compare func(a, b K) int, opts ...Option[K]) *Tree[K] {
	if compare == nil {
		panic("rbtree: nil compare func")
	}
	t := &Tree[K]{compare: compare}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ---- public API ----

// Root returns the root node, or nil when the tree is empty.
func (t *Tree[K]) Root() *Node[K] { return t.root }

// Len returns the number of keys, duplicates included.
func (t *Tree[K]) Len() int { return t.size }

// Insert adds key and rebalances.
func (t *Tree[K]) Insert(key K) {
	t.logf("Inserting %v", key)
	if t.tracker != nil {
		t.tracker.TrackInsert(key)
	}

	z := newNode(key)
	t.size++

	if t.root == nil {
		t.root = z
		t.setColor(z, Black)
		return
	}

	var parent *Node[K]
	goLeft := false
	for x := t.root; x != nil; {
		parent = x
		goLeft = t.compare(key, x.key) < 0
		if goLeft {
			x = x.left
		} else {
			x = x.right
		}
	}

	z.parent = parent
	if goLeft {
		parent.left = z
	} else {
		parent.right = z
	}

	t.fixInsert(z)
}

// Search reports whether a key equal to key is present.
func (t *Tree[K]) Search(key K) bool {
	t.logf("Searching for %v", key)
	return t.find(key) != nil
}

// Min returns the smallest key.
func (t *Tree[K]) Min() (K, bool) {
	n := t.min(t.root)
	if n == nil {
		var zero K
		return zero, false
	}
	return n.key, true
}

// Max returns the largest key.
func (t *Tree[K]) Max() (K, bool) {
	n := t.max(t.root)
	if n == nil {
		var zero K
		return zero, false
	}
	return n.key, true
}

// Height returns the number of nodes on the longest root-to-leaf path.
func (t *Tree[K]) Height() int {
	return height(t.root)
}

// ---- internal helpers ----

func (t *Tree[K]) find(key K) *Node[K] {
	n := t.root
	for n != nil {
		c := t.compare(key, n.key)
		switch {
		case c == 0:
			return n
		case c < 0:
			n = n.left
		default:
			n = n.right
		}
	}
	return nil
}

func (t *Tree[K]) min(n *Node[K]) *Node[K] {
	for n != nil && n.left != nil {
		n = n.left
	}
	return n
}

func (t *Tree[K]) max(n *Node[K]) *Node[K] {
	for n != nil && n.right != nil {
		n = n.right
	}
	return n
}

func (t *Tree[K]) next(n *Node[K]) *Node[K] {
	if n.right != nil {
		return t.min(n.right)
	}
	p := n.parent
	for p != nil && n == p.right {
		n = p
		p = p.parent
	}
	return p
}

func (t *Tree[K]) prev(n *Node[K]) *Node[K] {
	if n.left != nil {
		return t.max(n.left)
	}
	p := n.parent
	for p != nil && n == p.left {
		n = p
		p = p.parent
	}
	return p
}

func height[K any](n *Node[K]) int {
	if n == nil {
		return 0
	}
	return 1 + max(height(n.left), height(n.right))
}

func (t *Tree[K]) logf(format string, args ...any) {
	if t.logger != nil {
		t.logger.Log(fmt.Sprintf(format, args...))
	}
}

// setColor assigns c to n and reports the change.
func (t *Tree[K]) setColor(n *Node[K], c Color) {
	n.color = c
	if t.tracker != nil {
		t.tracker.TrackColorChange(n)
	}
}
