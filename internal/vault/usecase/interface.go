// Package usecase defines the interfaces and implementations for vault use cases.
// Use cases orchestrate the key manager, the fallback deriver, and the envelope
// cipher to implement migration-aware encryption and decryption of secret values.
package usecase

import (
	"context"

	vaultDomain "github.com/allisson/keyvault/internal/vault/domain"
)

// VaultUseCase defines the interface for vault business logic.
type VaultUseCase interface {
	// Encrypt seals plaintext under the primary key, provisioning the key on
	// first use, and returns the base64 envelope.
	Encrypt(ctx context.Context, plaintext string) (string, error)

	// Decrypt opens an envelope, trying the primary key first and the
	// derived fallback key second.
	//
	// When only the fallback key opens the envelope, the result carries
	// MigratedFromFallback=true and callers SHOULD re-encrypt the plaintext
	// so the value moves under the primary key.
	Decrypt(ctx context.Context, envelope string) (*vaultDomain.DecryptResult, error)

	// Reset destroys the primary key record. All ciphertext produced under
	// the destroyed key becomes permanently unreadable.
	Reset(ctx context.Context) error
}
