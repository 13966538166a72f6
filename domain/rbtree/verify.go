package rbtree

import "fmt"

// Property identifies a structural invariant of the tree.
type Property uint8

const (
	PropRootBlack Property = iota + 1
	PropNoRedRed
	PropBlackHeight
	PropOrder
	PropParentLink
	PropSize
)

func (p Property) String() string {
	switch p {
	case PropRootBlack:
		return "root is black"
	case PropNoRedRed:
		return "no red node has a red child"
	case PropBlackHeight:
		return "uniform black height"
	case PropOrder:
		return "search order"
	case PropParentLink:
		return "parent links match child links"
	case PropSize:
		return "node count matches size"
	default:
		return "unknown property"
	}
}

// InvariantError reports the first violated property found by Verify.
type InvariantError struct {
	Property Property
	Key      any
}

func (e *InvariantError) Error() string {
	if e.Key == nil {
		return fmt.Sprintf("rbtree: invariant violated: %s", e.Property)
	}
	return fmt.Sprintf("rbtree: invariant violated: %s at key %v", e.Property, e.Key)
}

// Verify checks every red-black and search-tree invariant and returns an
// *InvariantError for the first violation, or nil.
func (t *Tree[K]) Verify() error {
	if t.root == nil {
		if t.size != 0 {
			return &InvariantError{Property: PropSize}
		}
		return nil
	}
	if t.root.color != Black {
		return &InvariantError{Property: PropRootBlack, Key: t.root.key}
	}
	if t.root.parent != nil {
		return &InvariantError{Property: PropParentLink, Key: t.root.key}
	}

	count := 0
	if _, err := t.checkSubtree(t.root, &count); err != nil {
		return err
	}
	if count != t.size {
		return &InvariantError{Property: PropSize}
	}
	return t.checkOrder()
}

// checkSubtree returns the black height of n, counting the nil leaf.
func (t *Tree[K]) checkSubtree(n *Node[K], count *int) (int, error) {
	if n == nil {
		return 1, nil
	}
	*count++

	if n.color == Red && (n.left.IsRed() || n.right.IsRed()) {
		return 0, &InvariantError{Property: PropNoRedRed, Key: n.key}
	}
	if (n.left != nil && n.left.parent != n) || (n.right != nil && n.right.parent != n) {
		return 0, &InvariantError{Property: PropParentLink, Key: n.key}
	}

	lh, err := t.checkSubtree(n.left, count)
	if err != nil {
		return 0, err
	}
	rh, err := t.checkSubtree(n.right, count)
	if err != nil {
		return 0, err
	}
	if lh != rh {
		return 0, &InvariantError{Property: PropBlackHeight, Key: n.key}
	}

	if n.color == Black {
		lh++
	}
	return lh, nil
}

// checkOrder verifies left <= node <= right for every node by bounding each
// subtree with its ancestors' keys. Equal keys may sit on either side once a
// rotation has moved them, so both bounds are inclusive.
func (t *Tree[K]) checkOrder() error {
	type frame struct {
		n      *Node[K]
		lo, hi *Node[K] // lo <= key <= hi
	}
	stack := []frame{{n: t.root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.n == nil {
			continue
		}
		if f.lo != nil && t.compare(f.n.key, f.lo.key) < 0 {
			return &InvariantError{Property: PropOrder, Key: f.n.key}
		}
		if f.hi != nil && t.compare(f.n.key, f.hi.key) > 0 {
			return &InvariantError{Property: PropOrder, Key: f.n.key}
		}
		stack = append(stack,
			frame{n: f.n.left, lo: f.lo, hi: f.n},
			frame{n: f.n.right, lo: f.n, hi: f.hi},
		)
	}
	return nil
}
