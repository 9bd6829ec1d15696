package store

import (
	"context"
	"path/filepath"
	"testing"
)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestSession inserts a session with default fields.
func createTestSession(t *testing.T, s *Store, id string) {
	t.Helper()
	if err := s.CreateSession(context.Background(), Session{ID: id, Label: "test", MaxDepth: 1000}); err != nil {
		t.Fatalf("CreateSession() failed: %v", err)
	}
}

// createTestBatch builds a batch with a payload and hash derived from tick.
func createTestBatch(sessionID string, tick int64, records int) Batch {
	return Batch{
		SessionID:   sessionID,
		Tick:        tick,
		RecordCount: records,
		Hash:        "hash-" + sessionID,
		Payload:     []byte{byte(tick), 0x28, 0xb5},
	}
}
