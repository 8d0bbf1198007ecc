// Package service provides the cryptographic services behind the vault:
// the envelope cipher, the deterministic fallback key deriver, and the
// persistent key manager that owns the get-or-create protocol.
package service

import (
	"context"

	vaultDomain "github.com/allisson/keyvault/internal/vault/domain"
)

// KeyStore defines the external key-value store holding the singleton key
// record. Implementations live in the repository package (memory, file,
// postgresql, mysql) and may be wrapped by the keeper decorator.
type KeyStore interface {
	// Get retrieves the key record by its fixed identifier.
	// Returns errors.ErrNotFound when no record exists.
	Get(ctx context.Context, id string) (vaultDomain.KeyRecord, error)

	// Put stores the key record, replacing any existing record with the
	// same identifier (last write wins).
	Put(ctx context.Context, record vaultDomain.KeyRecord) error

	// Delete removes the key record. Deleting an absent record is not an
	// error.
	Delete(ctx context.Context, id string) error
}

// EnvelopeCipher defines authenticated encryption of strings into base64
// envelopes with the layout nonce(12) || ciphertext+tag.
type EnvelopeCipher interface {
	// Seal encrypts plaintext under the key and returns the base64 envelope.
	Seal(key *vaultDomain.SymmetricKey, plaintext string) (string, error)

	// Open decrypts a base64 envelope back to plaintext.
	Open(key *vaultDomain.SymmetricKey, envelope string) (string, error)
}

// KeyManager defines the primary key lifecycle: provisioning, loading, and
// destruction of the persisted symmetric key.
type KeyManager interface {
	// GetOrCreate returns the primary key, provisioning and persisting a
	// new one on first use.
	GetOrCreate(ctx context.Context) (*vaultDomain.SymmetricKey, error)

	// Reset deletes the persisted key record and invalidates any cached
	// key. Irrecoverably orphans all ciphertext produced under the old key.
	Reset(ctx context.Context) error
}

// FallbackDeriver defines deterministic derivation of the legacy fallback key.
type FallbackDeriver interface {
	// Derive produces the decrypt-only fallback key from the configured
	// environment identifiers.
	Derive() (*vaultDomain.SymmetricKey, error)
}
