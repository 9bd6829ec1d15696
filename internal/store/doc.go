// Package store provides SQLite-backed durable storage for replicated
// change batches.
//
// The store is append-only:
//   - Sessions: one row per editing session, keyed by a UUIDv7 string
//   - Owners: the objects a session replicates, keyed by owner key
//   - Batches: one zstd-compressed canonical JSON payload per session tick
//
// Ordering always uses logical numbers (tick, key), never timestamps, so a
// replayed session reads back identically. Batch writes are idempotent per
// (session, tick); rewriting a tick with different content is an error.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
