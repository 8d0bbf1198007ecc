package usecase

import (
	"context"
	"log/slog"

	vaultDomain "github.com/allisson/keyvault/internal/vault/domain"
	vaultService "github.com/allisson/keyvault/internal/vault/service"
)

// vaultUseCase implements the VaultUseCase interface.
type vaultUseCase struct {
	keyManager vaultService.KeyManager
	fallback   vaultService.FallbackDeriver
	cipher     vaultService.EnvelopeCipher
	logger     *slog.Logger
}

// Encrypt seals plaintext under the primary key.
func (v *vaultUseCase) Encrypt(ctx context.Context, plaintext string) (string, error) {
	key, err := v.keyManager.GetOrCreate(ctx)
	if err != nil {
		return "", err
	}

	return v.cipher.Seal(key, plaintext)
}

// Decrypt opens an envelope with the primary key, falling back to the derived
// legacy key when the primary attempt fails.
//
// The two attempts are independent: a primary failure of any kind (key load,
// key import, or authentication failure) still lets the fallback attempt run.
// When both fail, the returned error is a DecryptionFailedError carrying both
// causes so callers can distinguish tampering from a key mismatch.
func (v *vaultUseCase) Decrypt(
	ctx context.Context,
	envelope string,
) (*vaultDomain.DecryptResult, error) {
	var primaryErr error

	// First attempt: the persisted primary key.
	key, err := v.keyManager.GetOrCreate(ctx)
	if err != nil {
		primaryErr = err
	} else {
		plaintext, err := v.cipher.Open(key, envelope)
		if err == nil {
			return &vaultDomain.DecryptResult{Plaintext: plaintext}, nil
		}
		primaryErr = err
	}

	// Second attempt: the deterministic fallback key.
	fallbackKey, err := v.fallback.Derive()
	if err != nil {
		return nil, &vaultDomain.DecryptionFailedError{
			PrimaryErr:  primaryErr,
			FallbackErr: err,
		}
	}

	plaintext, err := v.cipher.Open(fallbackKey, envelope)
	if err != nil {
		return nil, &vaultDomain.DecryptionFailedError{
			PrimaryErr:  primaryErr,
			FallbackErr: err,
		}
	}

	v.logger.Info("envelope decrypted with fallback key",
		slog.String("primary_error", primaryErr.Error()),
	)

	return &vaultDomain.DecryptResult{
		Plaintext:            plaintext,
		MigratedFromFallback: true,
	}, nil
}

// Reset destroys the primary key record via the key manager.
func (v *vaultUseCase) Reset(ctx context.Context) error {
	return v.keyManager.Reset(ctx)
}

// NewVaultUseCase creates a new vault use case instance with the provided dependencies.
func NewVaultUseCase(
	keyManager vaultService.KeyManager,
	fallback vaultService.FallbackDeriver,
	cipher vaultService.EnvelopeCipher,
	logger *slog.Logger,
) VaultUseCase {
	return &vaultUseCase{
		keyManager: keyManager,
		fallback:   fallback,
		cipher:     cipher,
		logger:     logger,
	}
}
