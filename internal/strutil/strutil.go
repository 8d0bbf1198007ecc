// Package strutil provides small string helpers used around secret handling:
// identifier generation, comparison hashing, ciphertext detection, and
// display masking.
package strutil

import (
	"crypto/sha256"
	"encoding/base64"

	"github.com/google/uuid"
)

// minEnvelopeBytes is the smallest decoded size a ciphertext envelope can
// have: a 12-byte nonce with an empty authenticated payload would already be
// longer, so anything shorter cannot be an envelope.
const minEnvelopeBytes = 12

// DefaultVisibleChars is the number of leading and trailing characters Mask
// leaves readable by default.
const DefaultVisibleChars = 4

// RandomID generates a UUID-format identifier.
func RandomID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Hash returns base64(SHA-256(text)) for comparison-only use. The digest is
// not reversible and must not be reused as key material.
func Hash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// LooksEncrypted reports whether text plausibly is a ciphertext envelope:
// valid standard base64 decoding to at least the nonce length. It is a
// heuristic; short base64 values of other origins also match.
func LooksEncrypted(text string) bool {
	raw, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		return false
	}
	return len(raw) >= minEnvelopeBytes
}

// Mask redacts the middle of text for display, keeping the first and last
// visibleChars characters. Texts no longer than visibleChars are fully
// redacted to "****".
func Mask(text string, visibleChars int) string {
	if visibleChars < 1 {
		visibleChars = DefaultVisibleChars
	}
	if len(text) <= visibleChars {
		return "****"
	}
	return text[:visibleChars] + "****" + text[len(text)-visibleChars:]
}
