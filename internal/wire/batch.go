package wire

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/roach88/proplink/internal/value"
)

// Record is one replicated property change.
type Record struct {
	// Seq is the record's 1-based position in its batch.
	Seq int64

	// Owner is the stable key of the owning object.
	Owner string

	// Property is the property's per-owner id.
	Property uint32

	// Value is the new value. The record owns it; see Batch.Release.
	Value *value.Box
}

// Batch is the set of records drained from one session in one tick.
type Batch struct {
	Session string
	Tick    int64
	Records []Record
}

// Len returns the number of records.
func (b *Batch) Len() int {
	return len(b.Records)
}

// Release destroys every record's box. The batch must not be used afterwards.
func (b *Batch) Release() {
	for i := range b.Records {
		if b.Records[i].Value != nil && b.Records[i].Value.Live() {
			b.Records[i].Value.Destroy()
		}
	}
	b.Records = nil
}

// Tree returns the batch as a canonical JSON tree. Records whose values have
// no wire form make the whole batch fail; filter them before encoding.
func (b *Batch) Tree(refs RefCodec) (map[string]any, error) {
	records := make([]any, len(b.Records))
	for i, r := range b.Records {
		v, err := EncodeValue(r.Value.Value(), refs)
		if err != nil {
			return nil, fmt.Errorf("record %d (owner=%s prop=%d): %w", r.Seq, r.Owner, r.Property, err)
		}
		records[i] = map[string]any{
			"seq":   r.Seq,
			"owner": r.Owner,
			"prop":  r.Property,
			"kind":  r.Value.Kind().String(),
			"value": v,
		}
	}
	return map[string]any{
		"session": b.Session,
		"tick":    b.Tick,
		"records": records,
	}, nil
}

// Marshal encodes the batch as canonical JSON.
func (b *Batch) Marshal(refs RefCodec) ([]byte, error) {
	tree, err := b.Tree(refs)
	if err != nil {
		return nil, err
	}
	return MarshalCanonical(tree)
}

type recordJSON struct {
	Seq   int64           `json:"seq"`
	Owner string          `json:"owner"`
	Prop  uint32          `json:"prop"`
	Kind  string          `json:"kind"`
	Value json.RawMessage `json:"value"`
}

type batchJSON struct {
	Session string       `json:"session"`
	Tick    int64        `json:"tick"`
	Records []recordJSON `json:"records"`
}

// Unmarshal decodes a batch encoded by Marshal. Unknown fields are rejected.
// The caller owns the returned batch and must Release it.
func Unmarshal(data []byte, refs RefCodec) (*Batch, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var raw batchJSON
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode batch: %w", err)
	}

	b := &Batch{Session: raw.Session, Tick: raw.Tick}
	for i, r := range raw.Records {
		k, err := value.ParseKind(r.Kind)
		if err != nil {
			b.Release()
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		if len(r.Value) == 0 {
			b.Release()
			return nil, fmt.Errorf("record %d: missing value", i)
		}
		v, err := DecodeValue(k, r.Value, refs)
		if err != nil {
			b.Release()
			return nil, fmt.Errorf("record %d (owner=%s prop=%d): %w", i, r.Owner, r.Prop, err)
		}
		b.Records = append(b.Records, Record{
			Seq:      r.Seq,
			Owner:    r.Owner,
			Property: r.Prop,
			Value:    value.NewBox(v),
		})
	}
	return b, nil
}
