package rbtree

// fixInsert restores the red-black properties after z was attached as a
// red leaf. Each pass either pushes the red-red violation two levels up
// (red uncle) or ends it with one or two rotations (black uncle).
func (t *Tree[K]) fixInsert(z *Node[K]) {
	for z != t.root && z.parent.color == Red {
		g := z.parent.parent
		if z.parent == g.left {
			uncle := g.right
			if uncle.IsRed() {
				t.setColor(z.parent, Black)
				t.setColor(uncle, Black)
				t.setColor(g, Red)
				z = g
				continue
			}
			if z == z.parent.right {
				z = z.parent
				t.rotateLeft(z)
			}
			t.setColor(z.parent, Black)
			t.setColor(g, Red)
			t.rotateRight(g)
		} else {
			uncle := g.left
			if uncle.IsRed() {
				t.setColor(z.parent, Black)
				t.setColor(uncle, Black)
				t.setColor(g, Red)
				z = g
				continue
			}
			if z == z.parent.left {
				z = z.parent
				t.rotateRight(z)
			}
			t.setColor(z.parent, Black)
			t.setColor(g, Red)
			t.rotateLeft(g)
		}
	}
	t.setColor(t.root, Black)
}

func (t *Tree[K]) rotateLeft(x *Node[K]) {
	/*
	    P              P
	    |              |
	    x              y
	   / \            / \
	  A   y    →     x   C
	     / \        / \
	    B   C      A   B
	*/
	if t.tracker != nil {
		t.tracker.TrackRotation(Left)
	}
	y := x.right
	x.right = y.left
	if y.left != nil {
		y.left.parent = x
	}
	y.parent = x.parent
	switch {
	case x.parent == nil:
		t.root = y
	case x == x.parent.left:
		x.parent.left = y
	default:
		x.parent.right = y
	}
	y.left = x
	x.parent = y
}

func (t *Tree[K]) rotateRight(y *Node[K]) {
	/*
	      P            P
	      |            |
	      y            x
	     / \          / \
	    x   C   →    A   y
	   / \              / \
	  A   B            B   C
	*/
	if t.tracker != nil {
		t.tracker.TrackRotation(Right)
	}
	x := y.left
	y.left = x.right
	if x.right != nil {
		x.right.parent = y
	}
	x.parent = y.parent
	switch {
	case y.parent == nil:
		t.root = x
	case y == y.parent.right:
		y.parent.right = x
	default:
		y.parent.left = x
	}
	x.right = y
	y.parent = x
}
