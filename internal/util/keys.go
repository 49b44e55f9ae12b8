package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// Storage backends cap key sizes, and very long keys cost on every hop, so
// anything past this length is replaced by a hash.
const maxLiteralKey = 96

// EntryKey returns the namespaced storage key for one user key. Short keys
// stay readable; long ones collapse deterministically to a sha256 prefix.
// The "h:" segment keeps hashed keys out of the literal keyspace.
func EntryKey(prefix, key string) string {
	if len(key) <= maxLiteralKey {
		return prefix + ":" + key
	}
	sum := sha256.Sum256([]byte(key))
	return prefix + ":h:" + hex.EncodeToString(sum[:])[:32]
}
