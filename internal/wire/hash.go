package wire

import (
	"crypto/sha256"
	"encoding/hex"
)

// DomainBatch separates batch hashes from any other SHA-256 use.
const DomainBatch = "proplink/batch/v1"

// Hash returns the content hash of canonical batch bytes:
// hex(SHA256(DomainBatch + 0x00 + data)).
func Hash(data []byte) string {
	h := sha256.New()
	h.Write([]byte(DomainBatch))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
