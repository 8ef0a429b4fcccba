package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashedKey returns prefix + ":" + the first 32 hex chars of sha256(id).
// Origins can be arbitrarily long (inline payloads), storage keys must not be.
func HashedKey(prefix, id string) string {
	sum := sha256.Sum256([]byte(id))
	return prefix + ":" + hex.EncodeToString(sum[:16])
}
