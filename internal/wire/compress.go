package wire

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// Compress compresses data using zstd.
func Compress(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("zstd writer: %w", err)
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil), nil
}

// Decompress decompresses zstd-compressed data.
func Decompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("zstd reader: %w", err)
	}
	defer dec.Close()
	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decode: %w", err)
	}
	return out, nil
}

// Pack marshals and compresses a batch.
func Pack(b *Batch, refs RefCodec) ([]byte, error) {
	data, err := b.Marshal(refs)
	if err != nil {
		return nil, err
	}
	return Compress(data)
}

// Unpack decompresses and unmarshals a batch.
func Unpack(blob []byte, refs RefCodec) (*Batch, error) {
	data, err := Decompress(blob)
	if err != nil {
		return nil, err
	}
	return Unmarshal(data, refs)
}
