package rbtree

// Color is the per-node balance bit.
type Color uint8

const (
	Red Color = iota
	Black
)

func (c Color) String() string {
	switch c {
	case Red:
		return "red"
	case Black:
		return "black"
	default:
		return "unknown"
	}
}

// Direction names the way a rotation turns.
type Direction uint8

const (
	Left Direction = iota
	Right
)

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// Node holds one key. Nodes are owned by their Tree; the accessors are
// read-only and a node's position may change on the next Insert.
type Node[K any] struct {
	key    K
	color  Color
	left   *Node[K]
	right  *Node[K]
	parent *Node[K]
}

func newNode[K any](key K) *Node[K] {
	return &Node[K]{key: key, color: Red}
}

func (n *Node[K]) Key() K           { return n.key }
func (n *Node[K]) Color() Color     { return n.color }
func (n *Node[K]) Left() *Node[K]   { return n.left }
func (n *Node[K]) Right() *Node[K]  { return n.right }
func (n *Node[K]) Parent() *Node[K] { return n.parent }

// IsRed reports whether n is red. Absent nodes are black.
func (n *Node[K]) IsRed() bool { return n != nil && n.color == Red }

// IsBlack reports whether n is black or absent.
func (n *Node[K]) IsBlack() bool { return !n.IsRed() }
