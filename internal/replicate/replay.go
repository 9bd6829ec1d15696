package replicate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/proplink/internal/store"
	"github.com/roach88/proplink/internal/wire"
)

// ErrHashMismatch is returned when a stored payload does not match its hash.
var ErrHashMismatch = errors.New("batch hash mismatch")

// BatchReader reads a stored session back. *store.Store implements it.
type BatchReader interface {
	ReadBatches(ctx context.Context, sessionID string) ([]store.Batch, error)
}

// ReplayResult summarizes a replay.
type ReplayResult struct {
	Batches int
	Records int
	Applied int
}

// Replay applies every stored batch of sessionID in tick order.
//
// Each payload is checked against its stored hash before it is decoded. A
// corrupt batch stops the replay; records that fail to apply are reported
// but do not.
func (r *Replicator) Replay(ctx context.Context, src BatchReader, sessionID string) (ReplayResult, error) {
	var res ReplayResult
	batches, err := src.ReadBatches(ctx, sessionID)
	if err != nil {
		return res, fmt.Errorf("replay %s: %w", sessionID, err)
	}

	var applyErrs []error
	for _, sb := range batches {
		b, err := DecodeStored(sb, r.registry)
		if err != nil {
			return res, fmt.Errorf("replay %s: %w", sessionID, err)
		}
		n, err := r.Apply(ctx, b)
		res.Batches++
		res.Records += b.Len()
		res.Applied += n
		b.Release()
		if err != nil {
			applyErrs = append(applyErrs, fmt.Errorf("tick %d: %w", sb.Tick, err))
		}
	}
	slog.Info("replay complete", "session", sessionID, "batches", res.Batches, "records", res.Records, "applied", res.Applied)
	return res, errors.Join(applyErrs...)
}

// DecodeStored verifies and decodes a stored batch. The caller owns the
// returned batch and must Release it.
func DecodeStored(sb store.Batch, refs wire.RefCodec) (*wire.Batch, error) {
	data, err := wire.Decompress(sb.Payload)
	if err != nil {
		return nil, fmt.Errorf("tick %d: %w", sb.Tick, err)
	}
	if got := wire.Hash(data); got != sb.Hash {
		return nil, fmt.Errorf("tick %d: %w (stored %s, computed %s)", sb.Tick, ErrHashMismatch, sb.Hash, got)
	}
	b, err := wire.Unmarshal(data, refs)
	if err != nil {
		return nil, fmt.Errorf("tick %d: %w", sb.Tick, err)
	}
	return b, nil
}
