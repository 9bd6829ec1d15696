package store

import "errors"

// ErrBatchConflict is returned when a tick is rewritten with different content.
var ErrBatchConflict = errors.New("batch conflicts with stored tick")

// Session is one recorded editing session.
type Session struct {
	ID       string
	Label    string
	MaxDepth int
}

// Owner is one replicated object of a session.
type Owner struct {
	Key   string
	Class string
	Name  string
}

// Batch is one stored tick. Payload is the zstd-compressed canonical JSON of
// the tick's records and Hash is the content hash of the uncompressed bytes.
type Batch struct {
	SessionID   string
	Tick        int64
	RecordCount int
	Hash        string
	Payload     []byte
}
