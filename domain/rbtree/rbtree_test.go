package rbtree

import (
	"fmt"
	"math"
	"math/rand"
	"slices"
	"strings"
	"testing"
)

const (
	SIZE   = 1000
	SOURCE = 42
)

// spy records every tracker call as a short string.
type spy struct {
	events    []string
	inserts   []int
	rotations []Direction
}

func (s *spy) TrackInsert(key int) {
	s.inserts = append(s.inserts, key)
	s.events = append(s.events, fmt.Sprintf("insert %d", key))
}

func (s *spy) TrackRotation(dir Direction) {
	s.rotations = append(s.rotations, dir)
	s.events = append(s.events, "rotate "+dir.String())
}

func (s *spy) TrackColorChange(n *Node[int]) {
	s.events = append(s.events, fmt.Sprintf("color %d %s", n.Key(), n.Color()))
}

func newSpyTree() (*Tree[int], *spy) {
	s := &spy{}
	return New(WithTracker[int](s)), s
}

func insertAll(t *Tree[int], keys ...int) {
	for _, k := range keys {
		t.Insert(k)
	}
}

func assertShape(t *testing.T, tree *Tree[int], root, left, right int) {
	t.Helper()
	r := tree.Root()
	if r == nil {
		t.Fatal("expected non-empty tree")
	}
	if r.Key() != root || r.Color() != Black {
		t.Fatalf("root = %d/%s, want %d/black", r.Key(), r.Color(), root)
	}
	if r.Left() == nil || r.Left().Key() != left || r.Left().Color() != Red {
		t.Fatalf("left child wrong, want %d/red", left)
	}
	if r.Right() == nil || r.Right().Key() != right || r.Right().Color() != Red {
		t.Fatalf("right child wrong, want %d/red", right)
	}
	if err := tree.Verify(); err != nil {
		t.Fatal(err)
	}
}

// ---- rebalancing cases ----

func TestInsertRightRightRotatesLeft(t *testing.T) {
	tree, s := newSpyTree()
	insertAll(tree, 10, 20, 30)

	assertShape(t, tree, 20, 10, 30)
	if !slices.Equal(s.rotations, []Direction{Left}) {
		t.Fatalf("rotations = %v, want [left]", s.rotations)
	}
}

func TestInsertLeftLeftRotatesRight(t *testing.T) {
	tree, s := newSpyTree()
	insertAll(tree, 30, 20, 10)

	assertShape(t, tree, 20, 10, 30)
	if !slices.Equal(s.rotations, []Direction{Right}) {
		t.Fatalf("rotations = %v, want [right]", s.rotations)
	}
}

func TestInsertLeftRightRotatesTwice(t *testing.T) {
	tree, s := newSpyTree()
	insertAll(tree, 30, 10, 20)

	assertShape(t, tree, 20, 10, 30)
	if !slices.Equal(s.rotations, []Direction{Left, Right}) {
		t.Fatalf("rotations = %v, want [left right]", s.rotations)
	}
}

func TestInsertRightLeftRotatesTwice(t *testing.T) {
	tree, s := newSpyTree()
	insertAll(tree, 10, 30, 20)

	assertShape(t, tree, 20, 10, 30)
	if !slices.Equal(s.rotations, []Direction{Right, Left}) {
		t.Fatalf("rotations = %v, want [right left]", s.rotations)
	}
}

func TestInsertRedUncleRecolors(t *testing.T) {
	tree, s := newSpyTree()
	insertAll(tree, 20, 10, 30)
	s.rotations = nil
	tree.Insert(5)

	r := tree.Root()
	if r.Key() != 20 || r.Color() != Black {
		t.Fatalf("root = %d/%s, want 20/black", r.Key(), r.Color())
	}
	if r.Left().Key() != 10 || r.Left().Color() != Black {
		t.Fatalf("left = %d/%s, want 10/black", r.Left().Key(), r.Left().Color())
	}
	if r.Right().Key() != 30 || r.Right().Color() != Black {
		t.Fatalf("right = %d/%s, want 30/black", r.Right().Key(), r.Right().Color())
	}
	five := r.Left().Left()
	if five == nil || five.Key() != 5 || five.Color() != Red {
		t.Fatal("expected 5 as red left child of 10")
	}
	if five.Parent() != r.Left() {
		t.Fatal("5 has wrong parent")
	}
	if len(s.rotations) != 0 {
		t.Fatalf("expected no rotations, got %v", s.rotations)
	}
}

func TestRecoloringPropagatesToRoot(t *testing.T) {
	tree, s := newSpyTree()
	insertAll(tree, 10, 5, 15, 3, 1, 4, 2)
	if err := tree.Verify(); err != nil {
		t.Fatal(err)
	}
	if tree.Root().Color() != Black {
		t.Fatal("root must stay black")
	}
	if len(s.inserts) != 7 {
		t.Fatalf("expected 7 tracked inserts, got %d", len(s.inserts))
	}
}

// ---- duplicates ----

func TestInsertDuplicatesRouteRight(t *testing.T) {
	tree, s := newSpyTree()
	tree.Insert(10)
	tree.Insert(10)

	r := tree.Root()
	if r.Left() != nil {
		t.Fatal("duplicate must not go left")
	}
	if r.Right() == nil || r.Right().Key() != 10 || r.Right().Color() != Red {
		t.Fatal("duplicate must be a red right child")
	}

	tree.Insert(10)
	if tree.Len() != 3 {
		t.Fatalf("len = %d, want 3", tree.Len())
	}
	if err := tree.Verify(); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(s.inserts, []int{10, 10, 10}) {
		t.Fatalf("tracked inserts = %v", s.inserts)
	}
	if !slices.Equal(tree.Keys(), []int{10, 10, 10}) {
		t.Fatalf("keys = %v", tree.Keys())
	}
	if !tree.Search(10) {
		t.Fatal("expected 10 to be found")
	}
}

func TestVerifyAcceptsRotatedDuplicates(t *testing.T) {
	tree, s := newSpyTree()
	insertAll(tree, 10, 10, 10)

	if !slices.Equal(s.rotations, []Direction{Left}) {
		t.Fatalf("rotations = %v, want [left]", s.rotations)
	}
	r := tree.Root()
	if r.Left() == nil || r.Left().Key() != 10 {
		t.Fatal("rotation should move an equal key into the left subtree")
	}
	if err := tree.Verify(); err != nil {
		t.Fatalf("equal key on the left rejected: %v", err)
	}
}

func TestDuplicatesKeepInsertionOrder(t *testing.T) {
	type item struct {
		k   int
		tag int
	}
	tree := NewFunc(func(a, b item) int { return a.k - b.k })
	for i := 0; i < 50; i++ {
		tree.Insert(item{k: i % 5, tag: i})
	}
	if err := tree.Verify(); err != nil {
		t.Fatal(err)
	}

	last := map[int]int{}
	for it := range tree.Ascend() {
		if prev, ok := last[it.k]; ok && prev > it.tag {
			t.Fatalf("equal keys out of insertion order: %d after %d", it.tag, prev)
		}
		last[it.k] = it.tag
	}
}

// ---- invariants ----

func TestInsertMaintainsInvariants(t *testing.T) {
	r := rand.New(rand.NewSource(SOURCE))
	random := r.Perm(SIZE)
	sorted := slices.Clone(random)
	slices.Sort(sorted)
	reversed := slices.Clone(sorted)
	slices.Reverse(reversed)
	dups := make([]int, SIZE)
	for i := range dups {
		dups[i] = r.Intn(20)
	}

	tests := []struct {
		name  string
		input []int
	}{
		{"Empty", nil},
		{"Single", []int{1}},
		{"Random", random},
		{"Sorted", sorted},
		{"Reversed", reversed},
		{"Duplicates", dups},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := New[int]()
			for i, k := range tt.input {
				tree.Insert(k)
				if err := tree.Verify(); err != nil {
					t.Fatalf("after insert #%d (%d): %v", i, k, err)
				}
			}

			want := slices.Clone(tt.input)
			slices.Sort(want)
			if got := tree.Keys(); !slices.Equal(got, want) {
				t.Fatalf("in-order keys mismatch")
			}

			n := float64(len(tt.input))
			if limit := 2 * math.Log2(n+1); float64(tree.Height()) > limit+1e-9 {
				t.Fatalf("height %d exceeds %.2f", tree.Height(), limit)
			}
		})
	}
}

func TestVerifyDetectsViolations(t *testing.T) {
	build := func() *Tree[int] {
		tree := New[int]()
		insertAll(tree, 20, 10, 30, 5)
		return tree
	}

	tests := []struct {
		name    string
		corrupt func(*Tree[int])
		want    Property
	}{
		{"RedRoot", func(t *Tree[int]) { t.root.color = Red }, PropRootBlack},
		{"RedRed", func(t *Tree[int]) { t.root.left.color = Red }, PropNoRedRed},
		{"BlackHeight", func(t *Tree[int]) { t.root.right.color = Red }, PropBlackHeight},
		{"Order", func(t *Tree[int]) { t.root.left.left.key = 50 }, PropOrder},
		{"OrderRight", func(t *Tree[int]) { t.root.right.key = 15 }, PropOrder},
		{"ParentLink", func(t *Tree[int]) { t.root.left.left.parent = t.root }, PropParentLink},
		{"Size", func(t *Tree[int]) { t.size++ }, PropSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := build()
			tt.corrupt(tree)
			err := tree.Verify()
			ie, ok := err.(*InvariantError)
			if !ok {
				t.Fatalf("expected *InvariantError, got %v", err)
			}
			if ie.Property != tt.want {
				t.Fatalf("property = %s, want %s", ie.Property, tt.want)
			}
		})
	}
}

// ---- search ----

func TestSearch(t *testing.T) {
	tree := New[int]()
	if tree.Search(7) {
		t.Fatal("empty tree must not find anything")
	}

	insertAll(tree, 5, 3)
	if tree.Search(7) {
		t.Fatal("7 was never inserted")
	}

	r := rand.New(rand.NewSource(SOURCE))
	for _, k := range r.Perm(200) {
		tree.Insert(k + 100)
	}
	for _, k := range []int{5, 3, 100, 150, 299} {
		if !tree.Search(k) {
			t.Fatalf("expected %d to be found", k)
		}
	}
	for _, k := range []int{0, 4, 99, 300} {
		if tree.Search(k) {
			t.Fatalf("did not expect %d", k)
		}
	}
}

func TestSearchDoesNotTrack(t *testing.T) {
	tree, s := newSpyTree()
	insertAll(tree, 1, 2, 3)
	before := len(s.events)
	tree.Search(2)
	tree.Search(9)
	if len(s.events) != before {
		t.Fatal("search must not notify the tracker")
	}
}

// ---- observers ----

func TestLoggerMessages(t *testing.T) {
	var got []string
	tree := New(WithLogger[int](LoggerFunc(func(m string) { got = append(got, m) })))

	insertAll(tree, 10, 20, 30)
	tree.Search(10)

	want := []string{"Inserting 10", "Inserting 20", "Inserting 30", "Searching for 10"}
	if !slices.Equal(got, want) {
		t.Fatalf("log = %q, want %q", got, want)
	}
}

func TestTrackerEventOrder(t *testing.T) {
	tree, s := newSpyTree()
	insertAll(tree, 10, 20, 30)

	want := []string{
		"insert 10", "color 10 black",
		"insert 20", "color 10 black",
		"insert 30", "color 20 black", "color 10 red", "rotate left", "color 20 black",
	}
	if !slices.Equal(s.events, want) {
		t.Fatalf("events:\n%s\nwant:\n%s", strings.Join(s.events, "\n"), strings.Join(want, "\n"))
	}
}

func TestTrackInsertOncePerCall(t *testing.T) {
	tree, s := newSpyTree()
	r := rand.New(rand.NewSource(SOURCE))
	keys := r.Perm(SIZE)
	insertAll(tree, keys...)

	if !slices.Equal(s.inserts, keys) {
		t.Fatal("tracked inserts must match the inserted keys in call order")
	}
}

func TestEveryInsertEndsWithRootBlackening(t *testing.T) {
	tracker := &lastColorTracker{}
	tree := New(WithTracker[int](tracker))
	r := rand.New(rand.NewSource(SOURCE))
	for _, k := range r.Perm(200) {
		tree.Insert(k)
		if tracker.last != tree.Root() {
			t.Fatalf("insert %d: last color event was not the root", k)
		}
		if tracker.lastColor != Black {
			t.Fatalf("insert %d: root reported as %s", k, tracker.lastColor)
		}
	}
}

type lastColorTracker struct {
	last      *Node[int]
	lastColor Color
}

func (c *lastColorTracker) TrackInsert(int)         {}
func (c *lastColorTracker) TrackRotation(Direction) {}
func (c *lastColorTracker) TrackColorChange(n *Node[int]) {
	c.last = n
	c.lastColor = n.Color()
}

func TestNilObserversAreSkipped(t *testing.T) {
	tree := New(WithLogger[int](nil), WithTracker[int](nil))
	insertAll(tree, 3, 2, 1)
	if !tree.Search(2) {
		t.Fatal("expected 2")
	}
	if err := tree.Verify(); err != nil {
		t.Fatal(err)
	}
}

// ---- walkers ----

func TestWalkers(t *testing.T) {
	tree := New[int]()
	if _, ok := tree.Min(); ok {
		t.Fatal("empty tree has no min")
	}
	if _, ok := tree.Max(); ok {
		t.Fatal("empty tree has no max")
	}

	insertAll(tree, 50, 20, 80, 10, 30, 70, 90)

	if k, _ := tree.Min(); k != 10 {
		t.Fatalf("min = %d", k)
	}
	if k, _ := tree.Max(); k != 90 {
		t.Fatalf("max = %d", k)
	}
	if got := slices.Collect(tree.Descend()); !slices.Equal(got, []int{90, 80, 70, 50, 30, 20, 10}) {
		t.Fatalf("descend = %v", got)
	}

	var firstThree []int
	for k := range tree.Ascend() {
		firstThree = append(firstThree, k)
		if len(firstThree) == 3 {
			break
		}
	}
	if !slices.Equal(firstThree, []int{10, 20, 30}) {
		t.Fatalf("ascend early stop = %v", firstThree)
	}
}

func TestCustomOrder(t *testing.T) {
	tree := NewFunc(func(a, b string) int { return strings.Compare(b, a) })
	for _, s := range []string{"b", "d", "a", "c"} {
		tree.Insert(s)
	}
	if got := tree.Keys(); !slices.Equal(got, []string{"d", "c", "b", "a"}) {
		t.Fatalf("keys = %v", got)
	}
	if err := tree.Verify(); err != nil {
		t.Fatal(err)
	}
}

// ---- benchmarks ----

func BenchmarkInsertRandom(b *testing.B) {
	r := rand.New(rand.NewSource(SOURCE))
	keys := r.Perm(10_000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tree := New[int]()
		for _, k := range keys {
			tree.Insert(k)
		}
	}
}

func BenchmarkSearch(b *testing.B) {
	tree := New[int]()
	for i := 0; i < 10_000; i++ {
		tree.Insert(i)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tree.Search(i % 10_000)
	}
}
