package store

import (
	"context"
	"fmt"
)

// CreateSession inserts a session record.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - reopening a session is a no-op.
func (s *Store) CreateSession(ctx context.Context, sess Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, label, max_depth)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, sess.ID, sess.Label, sess.MaxDepth)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// WriteOwner registers an owner under a session.
// Uses ON CONFLICT DO NOTHING for idempotency.
//
// Note: The session must exist (foreign key constraint).
func (s *Store) WriteOwner(ctx context.Context, sessionID string, o Owner) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO owners (session_id, key, class, name)
		VALUES (?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`, sessionID, o.Key, o.Class, o.Name)
	if err != nil {
		return fmt.Errorf("write owner: %w", err)
	}
	return nil
}

// WriteBatch stores one tick.
//
// Writing the same tick twice with the same hash is a no-op, which makes
// retried replication safe. A different hash for a stored tick returns
// ErrBatchConflict.
//
// Note: The session must exist (foreign key constraint).
func (s *Store) WriteBatch(ctx context.Context, b Batch) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO batches (session_id, tick, record_count, hash, payload)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(session_id, tick) DO NOTHING
	`, b.SessionID, b.Tick, b.RecordCount, b.Hash, b.Payload)
	if err != nil {
		return fmt.Errorf("write batch: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("write batch: %w", err)
	}
	if n == 1 {
		return nil
	}

	var stored string
	err = s.db.QueryRowContext(ctx, `
		SELECT hash FROM batches WHERE session_id = ? AND tick = ?
	`, b.SessionID, b.Tick).Scan(&stored)
	if err != nil {
		return fmt.Errorf("write batch: check existing: %w", err)
	}
	if stored != b.Hash {
		return fmt.Errorf("write batch: session=%s tick=%d: %w", b.SessionID, b.Tick, ErrBatchConflict)
	}
	return nil
}
