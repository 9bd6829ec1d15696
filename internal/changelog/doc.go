// Package changelog records property mutations for later replication.
//
// The log is append-only between drains. Entries are allocated from a bump
// Arena that is only ever reset as a whole; individual entries are never
// freed. A consumer reads every entry with Each, copies out what it needs,
// then calls Rewind, which destroys the boxed snapshots and zeroes the length.
//
// There is no deduplication: N mutations between drains produce N entries in
// mutation order. Consumers that only want the latest value reduce themselves.
//
// Logging is gated by a plain flag, not a counter. Nested suppression is the
// caller's responsibility.
package changelog
