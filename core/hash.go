package core

import (
	"encoding/hex"

	"github.com/go-crypt/x/blake2b"
)

// HashContent computes the content fingerprint for a file's raw bytes
// using BLAKE2b-128. Byte-identical inputs always produce equal
// fingerprints; the digest is used for dedup only, not integrity.
func HashContent(data []byte) string {
	h, _ := blake2b.New(16, nil) // 16 bytes = 128 bits
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
