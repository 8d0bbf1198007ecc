package usecase

import (
	"context"
	"time"

	"github.com/allisson/keyvault/internal/metrics"
	vaultDomain "github.com/allisson/keyvault/internal/vault/domain"
)

// vaultUseCaseWithMetrics decorates VaultUseCase with metrics instrumentation.
type vaultUseCaseWithMetrics struct {
	next    VaultUseCase
	metrics metrics.BusinessMetrics
}

// NewVaultUseCaseWithMetrics wraps a VaultUseCase with metrics recording.
func NewVaultUseCaseWithMetrics(useCase VaultUseCase, m metrics.BusinessMetrics) VaultUseCase {
	return &vaultUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Encrypt records metrics for encryption operations.
func (v *vaultUseCaseWithMetrics) Encrypt(ctx context.Context, plaintext string) (string, error) {
	start := time.Now()
	envelope, err := v.next.Encrypt(ctx, plaintext)

	status := "success"
	if err != nil {
		status = "error"
	}

	v.metrics.RecordOperation(ctx, "vault", "vault_encrypt", status)
	v.metrics.RecordDuration(ctx, "vault", "vault_encrypt", time.Since(start), status)

	return envelope, err
}

// Decrypt records metrics for decryption operations, counting fallback
// migrations separately so legacy ciphertext drain can be observed.
func (v *vaultUseCaseWithMetrics) Decrypt(
	ctx context.Context,
	envelope string,
) (*vaultDomain.DecryptResult, error) {
	start := time.Now()
	result, err := v.next.Decrypt(ctx, envelope)

	status := "success"
	if err != nil {
		status = "error"
	}

	v.metrics.RecordOperation(ctx, "vault", "vault_decrypt", status)
	v.metrics.RecordDuration(ctx, "vault", "vault_decrypt", time.Since(start), status)

	if err == nil && result.MigratedFromFallback {
		v.metrics.RecordOperation(ctx, "vault", "vault_fallback_migration", status)
	}

	return result, err
}

// Reset records metrics for key reset operations.
func (v *vaultUseCaseWithMetrics) Reset(ctx context.Context) error {
	start := time.Now()
	err := v.next.Reset(ctx)

	status := "success"
	if err != nil {
		status = "error"
	}

	v.metrics.RecordOperation(ctx, "vault", "vault_reset", status)
	v.metrics.RecordDuration(ctx, "vault", "vault_reset", time.Since(start), status)

	return err
}
