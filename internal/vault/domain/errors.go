package domain

import (
	"fmt"

	"github.com/allisson/keyvault/internal/errors"
)

// Key lifecycle and envelope encryption error definitions.
//
// These domain-specific errors wrap standard errors from internal/errors
// to provide context for cryptographic failures. All errors are mapped to
// appropriate HTTP status codes by the error handling layer.
var (
	// ErrKeyImport indicates the stored key material could not be imported
	// as a valid 256-bit key (wrong length or invalid base64, e.g., a
	// corrupted record). Callers must treat this as equivalent to "no
	// usable primary key".
	ErrKeyImport = errors.Wrap(errors.ErrInvalidInput, "invalid stored key material")

	// ErrKeyProvision indicates first-run key generation or storage failed.
	ErrKeyProvision = errors.Wrap(errors.ErrUnavailable, "primary key provisioning failed")

	// ErrKeyStore indicates the underlying key store itself failed.
	//
	// Deleting a record that does not exist is not a key store error.
	ErrKeyStore = errors.Wrap(errors.ErrUnavailable, "key store failure")

	// ErrEncryption indicates the encryption primitive failed. No partial
	// state is written when this is returned.
	ErrEncryption = errors.New("encryption failed")

	// ErrDecryption indicates a decryption operation failed.
	//
	// This error can occur due to:
	//   - Malformed base64 input
	//   - A payload shorter than the nonce length
	//   - Authentication failure (wrong key or tampered data)
	//
	// The causes are intentionally not distinguished to the caller, to
	// avoid leaking oracle information.
	ErrDecryption = errors.Wrap(errors.ErrInvalidInput, "decryption failed")

	// ErrDecryptionFailed indicates both the primary and the fallback key
	// were exhausted. This is terminal; no further fallback tiers exist.
	ErrDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "decryption failed with primary and fallback keys")

	// ErrKeyUsage indicates a key was used outside its declared usage mode
	// (e.g., encrypting with a decrypt-only key).
	ErrKeyUsage = errors.Wrap(errors.ErrInvalidInput, "key usage not permitted")
)

// DecryptionFailedError carries both underlying causes when the primary and
// fallback decryption attempts have failed. It matches ErrDecryptionFailed
// (and therefore ErrInvalidInput) under errors.Is; both causes stay
// reachable through Unwrap.
type DecryptionFailedError struct {
	PrimaryErr  error
	FallbackErr error
}

// Error returns a description including both underlying causes.
func (e *DecryptionFailedError) Error() string {
	return fmt.Sprintf(
		"%v: primary: %v; fallback: %v",
		ErrDecryptionFailed,
		e.PrimaryErr,
		e.FallbackErr,
	)
}

// Unwrap exposes the sentinel and both causes to errors.Is/errors.As.
func (e *DecryptionFailedError) Unwrap() []error {
	return []error{ErrDecryptionFailed, e.PrimaryErr, e.FallbackErr}
}
