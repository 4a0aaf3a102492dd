package domain

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest returns the hex-encoded SHA-256 digest of a secret. Credentials and
// reset codes are verified by comparing digests for equality, so the
// transform must produce identical output across process restarts, with no
// per-process salt or seed.
func Digest(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
