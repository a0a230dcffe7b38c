package game

import (
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/sha3"
)

// Commit returns the hex SHA3-256 digest of the uppercase word. The
// authority publishes it before the first guess.
func Commit(word string) string {
	sum := sha3.Sum256([]byte(strings.ToUpper(word)))
	return hex.EncodeToString(sum[:])
}

// MatchesCommitment reports whether guess hashes to commitment.
func MatchesCommitment(commitment, guess string) bool {
	got := Commit(guess)
	return subtle.ConstantTimeCompare([]byte(got), []byte(strings.ToLower(commitment))) == 1
}
