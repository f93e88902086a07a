package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashString creates a SHA-256 hash of the input string
func HashString(input string) string {
	h := sha256.Sum256([]byte(input))
	return hex.EncodeToString(h[:])
}

// HashEmail returns a short, stable digest of an address so log lines can be
// correlated without recording the address itself.
func HashEmail(email string) string {
	return HashString(strings.ToLower(strings.TrimSpace(email)))[:12]
}
