package domain

// DecryptResult is the outcome of a fallback-aware decryption.
//
// MigratedFromFallback reports that the plaintext was recovered with the
// deterministic fallback key rather than the primary key. It is the explicit
// signal that the caller should re-encrypt the value under the primary key;
// re-encryption itself is never automatic.
type DecryptResult struct {
	Plaintext            string
	MigratedFromFallback bool
}
