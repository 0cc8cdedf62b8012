package auth

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashPassword returns the hex sha256 digest stored alongside the user
// record. Credential lookups compare digests, never plaintext.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
