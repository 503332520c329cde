package common

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// MakeRandHexString returns a hex string backed by size random bytes
// (so the result is 2*size characters long). Used for opaque tokens.
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("rand error: %w", err)
	}
	return hex.EncodeToString(b), nil
}
