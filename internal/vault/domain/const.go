package domain

const (
	// PrimaryKeyRecordID is the fixed singleton identifier under which the
	// persisted primary key record is stored. Exactly one record may exist
	// at a time; it is replaced wholesale and never mutated in place.
	PrimaryKeyRecordID = "primary-encryption-key"

	// KeySize is the symmetric key size in bytes (256 bits, AES-256).
	KeySize = 32

	// NonceSize is the AES-GCM nonce size in bytes (96 bits).
	//
	// Every envelope starts with a freshly random nonce of this size.
	// Decryption always consumes the first NonceSize bytes as the nonce
	// and the remainder as the authenticated payload.
	NonceSize = 12

	// TagSize is the AES-GCM authentication tag size in bytes, appended
	// to the ciphertext by the AEAD primitive.
	TagSize = 16
)

// Fallback key derivation constants.
//
// These exact values must be reproduced bit-for-bit to decrypt legacy
// ciphertext produced under the device-derived key scheme. Changing any
// of them breaks the fallback path permanently.
const (
	// FallbackSalt is the fixed textual PBKDF2 salt.
	FallbackSalt = "apilot-salt"

	// FallbackIterations is the PBKDF2-HMAC-SHA256 iteration count.
	FallbackIterations = 100_000

	// FallbackSeparator joins the environment-identifying strings that
	// form the derivation input.
	FallbackSeparator = "::"

	// FallbackUnknown is the sentinel used for any environment identifier
	// that is unavailable.
	FallbackUnknown = "unknown"
)
