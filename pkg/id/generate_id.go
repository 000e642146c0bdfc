package id

import (
	"crypto/rand"
	"encoding/hex"
)

// NewID32 returns a random 128-bit identifier as 32 lowercase hex characters,
// the id format shared by every entity in the system.
func NewID32() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
