package rbtree

// Logger receives human-readable narration of operations.
type Logger interface {
	Log(message string)
}

// ChangeTracker receives structured change events for audit and replay.
//
// TrackColorChange is called after the color has been assigned; the node is
// live and must not be retained past the call.
type ChangeTracker[K any] interface {
	TrackInsert(key K)
	TrackRotation(dir Direction)
	TrackColorChange(node *Node[K])
}

// LoggerFunc adapts a plain function to Logger.
type LoggerFunc func(message string)

func (f LoggerFunc) Log(message string) { f(message) }

// Option configures a Tree.
type Option[K any] func(*Tree[K])

// WithLogger attaches a narration observer. Passing a nil interface leaves
// narration off; a typed nil pointer is called like any other value.
func WithLogger[K any](l Logger) Option[K] {
	return func(t *Tree[K]) { t.logger = l }
}

// WithTracker attaches a change observer. Passing a nil interface leaves
// tracking off; a typed nil pointer is called like any other value.
func WithTracker[K any](ct ChangeTracker[K]) Option[K] {
	return func(t *Tree[K]) { t.tracker = ct }
}
