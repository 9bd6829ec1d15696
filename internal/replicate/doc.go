// Package replicate ships a session's change log to a remote previewer and
// applies the previewer's updates back.
//
// Once per tick the Replicator drains the log into a wire.Batch keyed by
// stable owner keys, persists it, and rewinds the log. Incoming batches are
// applied with SetBoxed while logging is disabled, so applied updates are
// not echoed back in the next tick.
//
// Thread-safety: a Replicator belongs to its session's goroutine, like the
// session itself. Only the Clock is safe for concurrent use.
package replicate
