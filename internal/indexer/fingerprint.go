package indexer

import (
	"crypto/sha256"
	"encoding/hex"
)

// Checksum returns the hex-encoded sha256 of the chunk body's UTF-8 bytes.
// It is a pure function of the body and the sole signal for change detection:
// identical bodies always fingerprint identically, so an unchanged source
// tree re-syncs with zero remote calls.
func Checksum(body string) string {
	sum := sha256.Sum256([]byte(body))
	return hex.EncodeToString(sum[:])
}
