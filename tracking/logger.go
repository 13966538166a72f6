package tracking

import (
	"log"

	"redblack/domain/rbtree"
)

// StdLogger forwards tree narration to a standard library logger.
type StdLogger struct {
	l *log.Logger
}

// NewStdLogger wraps l, or the default logger when l is nil.
func NewStdLogger(l *log.Logger) *StdLogger {
	if l == nil {
		l = log.Default()
	}
	return &StdLogger{l: l}
}

func (s *StdLogger) Log(message string) {
	s.l.Printf("[rbtree] %s", message)
}

// Discard drops every message.
var Discard rbtree.Logger = rbtree.LoggerFunc(func(string) {})
