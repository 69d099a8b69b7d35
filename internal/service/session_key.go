package service

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// sessionKey is the form a client session id takes at rest. Views only need
// equality, so the raw identifier is never stored.
func sessionKey(sessionID string) string {
	sum := blake2b.Sum256([]byte(sessionID))
	return hex.EncodeToString(sum[:])
}
