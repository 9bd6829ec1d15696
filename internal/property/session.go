package property

import (
	"github.com/roach88/proplink/internal/changelog"
)

// DefaultMaxDepth is the default propagation depth guard.
// Deep but acyclic graphs should raise it with WithMaxDepth.
const DefaultMaxDepth = 1000

// Session carries the per-session state every mutation needs: the change
// log and the propagation depth guard. One per editing session; it is
// passed to every setter.
type Session struct {
	log      *changelog.Log
	maxDepth int
	depth    int
}

// SessionOption allows configuration of session parameters.
type SessionOption func(*Session)

// WithMaxDepth sets the propagation depth guard.
//
// Default: 1000 (DefaultMaxDepth). A value <= 0 disables the guard, leaving
// runaway cycles to overflow the stack.
func WithMaxDepth(maxDepth int) SessionOption {
	return func(s *Session) {
		s.maxDepth = maxDepth
	}
}

// WithLogging sets the initial state of the change log flag.
func WithLogging(on bool) SessionOption {
	return func(s *Session) {
		s.log.SetEnabled(on)
	}
}

// WithChangeLog uses l as the session change log.
// Options are applied in order, so put it before WithLogging.
func WithChangeLog(l *changelog.Log) SessionOption {
	return func(s *Session) {
		s.log = l
	}
}

// NewSession starts a session with an empty, disabled change log.
func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		log:      changelog.New(),
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Log returns the session change log.
func (s *Session) Log() *changelog.Log {
	return s.log
}

// MaxDepth returns the propagation depth guard.
func (s *Session) MaxDepth() int {
	return s.maxDepth
}

// Depth returns the current propagation depth; zero outside any setter.
func (s *Session) Depth() int {
	return s.depth
}

// Close ends the session, destroying any unread change log entries.
func (s *Session) Close() {
	s.log.Rewind()
	s.log.Disable()
}

// dirty records p in the change log and runs every dependant's callback.
func (s *Session) dirty(p *Instance) {
	s.depth++
	defer func() { s.depth-- }()
	if s.maxDepth > 0 && s.depth > s.maxDepth {
		panic(NewDepthError(p.spec.name, s.depth, s.maxDepth))
	}

	if s.log.Enabled() && p.spec.flags.Has(LoggedForExport) {
		s.log.Append(p.owner, p.id, p.Box())
	}

	if p.dependants.len() == 0 {
		return
	}
	p.dependants.each(func(d *dependant) {
		s.notify(p, d)
	})
}

// notify runs one dependant's callback. A collected target has its binding
// released instead.
func (s *Session) notify(source *Instance, d *dependant) {
	if d.obs != nil {
		d.obs.fire(s)
		return
	}
	target := d.prop.Value()
	if target == nil {
		d.binding.release()
		source.dependants.remove(d)
		return
	}
	if b := target.binding; b == d.binding {
		b.callback(s, target, b.data)
	}
}
