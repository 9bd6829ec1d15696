package changelog

import (
	"log/slog"

	"github.com/roach88/proplink/internal/value"
)

// Entry is one recorded mutation.
type Entry struct {
	// Owner is the object whose property changed. It is a non-owning
	// reference and is only meaningful until the log is rewound.
	Owner any

	// PropertyID is the property's small id, unique within the owner.
	PropertyID uint32

	// Value is a snapshot of the property taken when it was dirtied.
	// The log owns it and destroys it on Rewind.
	Value *value.Box

	seq int
}

// Seq returns the 1-based position of the entry since the last rewind.
func (e *Entry) Seq() int {
	return e.seq
}

// Log is the per-session change log.
//
// Not safe for concurrent use.
type Log struct {
	arena   *Arena
	entries []*Entry
	enabled bool
}

// New creates a disabled, empty log.
func New() *Log {
	return &Log{arena: NewArena(DefaultChunkSize)}
}

// NewWithArena creates a disabled, empty log backed by arena.
func NewWithArena(arena *Arena) *Log {
	return &Log{arena: arena}
}

// Enable turns recording on.
func (l *Log) Enable() {
	l.enabled = true
}

// Disable turns recording off. Entries already recorded are kept.
func (l *Log) Disable() {
	l.enabled = false
}

// Enabled reports whether recording is on.
func (l *Log) Enabled() bool {
	return l.enabled
}

// SetEnabled sets the recording flag and returns its previous value.
func (l *Log) SetEnabled(on bool) bool {
	prev := l.enabled
	l.enabled = on
	return prev
}

// Len returns the number of entries since the last rewind.
func (l *Log) Len() int {
	return len(l.entries)
}

// Append records a mutation, taking ownership of snapshot.
// Append does not consult the enabled flag; callers gate on Enabled.
func (l *Log) Append(owner any, id uint32, snapshot *value.Box) *Entry {
	e := l.arena.Alloc()
	e.Owner = owner
	e.PropertyID = id
	e.Value = snapshot
	e.seq = len(l.entries) + 1
	l.entries = append(l.entries, e)
	return e
}

// Each visits entries in append order until fn returns false.
// fn must not append to or rewind the log.
func (l *Log) Each(fn func(*Entry) bool) {
	for _, e := range l.entries {
		if !fn(e) {
			return
		}
	}
}

// Entries returns the entries in append order. The slice and the entries
// are only valid until the next Rewind.
func (l *Log) Entries() []*Entry {
	return l.entries
}

// Rewind destroys every snapshot, resets the arena and zeroes the length.
// Rewinding an empty log is a no-op.
func (l *Log) Rewind() {
	if len(l.entries) == 0 {
		return
	}
	n := len(l.entries)
	for _, e := range l.entries {
		e.Value.Destroy()
	}
	clear(l.entries)
	l.entries = l.entries[:0]
	l.arena.Reset()
	slog.Debug("change log rewound", "entries", n)
}
