package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// GetSession returns a session by id.
// Returns found=false (and no error) if the session does not exist.
func (s *Store) GetSession(ctx context.Context, id string) (Session, bool, error) {
	var sess Session
	err := s.db.QueryRowContext(ctx, `
		SELECT id, label, max_depth FROM sessions WHERE id = ?
	`, id).Scan(&sess.ID, &sess.Label, &sess.MaxDepth)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, fmt.Errorf("get session: %w", err)
	}
	return sess, true, nil
}

// ListSessions returns every session ordered by id.
// UUIDv7 ids sort by creation time, so this is oldest first.
//
// Returns an empty slice (not nil) if there are no sessions.
func (s *Store) ListSessions(ctx context.Context) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, label, max_depth FROM sessions
		ORDER BY id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []Session{}
	for rows.Next() {
		var sess Session
		if err := rows.Scan(&sess.ID, &sess.Label, &sess.MaxDepth); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// ReadOwners returns a session's owners ordered by key.
//
// Returns an empty slice (not nil) if the session has no owners.
func (s *Store) ReadOwners(ctx context.Context, sessionID string) ([]Owner, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT key, class, name FROM owners
		WHERE session_id = ?
		ORDER BY key COLLATE BINARY ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query owners: %w", err)
	}
	defer rows.Close()

	owners := []Owner{}
	for rows.Next() {
		var o Owner
		if err := rows.Scan(&o.Key, &o.Class, &o.Name); err != nil {
			return nil, fmt.Errorf("scan owner: %w", err)
		}
		owners = append(owners, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate owners: %w", err)
	}
	return owners, nil
}

// ReadBatches returns a session's batches ordered by tick.
//
// Returns an empty slice (not nil) if the session has no batches.
func (s *Store) ReadBatches(ctx context.Context, sessionID string) ([]Batch, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, tick, record_count, hash, payload FROM batches
		WHERE session_id = ?
		ORDER BY tick ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query batches: %w", err)
	}
	defer rows.Close()

	batches := []Batch{}
	for rows.Next() {
		var b Batch
		if err := rows.Scan(&b.SessionID, &b.Tick, &b.RecordCount, &b.Hash, &b.Payload); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		batches = append(batches, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate batches: %w", err)
	}
	return batches, nil
}

// LastTick returns the highest stored tick of a session, or 0 if none.
func (s *Store) LastTick(ctx context.Context, sessionID string) (int64, error) {
	var tick sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT MAX(tick) FROM batches WHERE session_id = ?
	`, sessionID).Scan(&tick)
	if err != nil {
		return 0, fmt.Errorf("last tick: %w", err)
	}
	return tick.Int64, nil
}
