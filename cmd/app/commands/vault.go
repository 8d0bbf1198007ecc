package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/allisson/keyvault/internal/strutil"
	vaultUseCase "github.com/allisson/keyvault/internal/vault/usecase"
)

// RunEncrypt encrypts a plaintext value with the primary key and writes the
// resulting envelope to out.
func RunEncrypt(ctx context.Context, useCase vaultUseCase.VaultUseCase, out io.Writer, value string) error {
	if value == "" {
		return fmt.Errorf("value must not be empty")
	}

	envelope, err := useCase.Encrypt(ctx, value)
	if err != nil {
		return fmt.Errorf("failed to encrypt value: %w", err)
	}

	fmt.Fprintln(out, envelope)
	return nil
}

// RunDecrypt decrypts an envelope and writes the plaintext to out.
// Supports text and JSON output formats. The JSON format includes the
// migrated_from_fallback flag so operators can spot envelopes that still need
// re-encryption with the primary key.
func RunDecrypt(ctx context.Context, useCase vaultUseCase.VaultUseCase, out io.Writer, envelope, format string) error {
	if envelope == "" {
		return fmt.Errorf("envelope must not be empty")
	}
	if !strutil.LooksEncrypted(envelope) {
		return fmt.Errorf("argument does not look like an envelope, expected base64 output from encrypt")
	}

	result, err := useCase.Decrypt(ctx, envelope)
	if err != nil {
		return fmt.Errorf("failed to decrypt envelope: %w", err)
	}

	if format == "json" {
		payload := map[string]interface{}{
			"value":                  result.Plaintext,
			"migrated_from_fallback": result.MigratedFromFallback,
		}
		jsonBytes, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(out, string(jsonBytes))
		return nil
	}

	fmt.Fprintln(out, result.Plaintext)
	return nil
}

// RunResetKey destroys the primary key and provisions a fresh one. Envelopes
// sealed with the old key become unrecoverable, so the command refuses to run
// without explicit confirmation.
func RunResetKey(ctx context.Context, useCase vaultUseCase.VaultUseCase, logger *slog.Logger, out io.Writer, yes bool) error {
	if !yes {
		return fmt.Errorf("resetting the primary key makes existing envelopes unrecoverable, pass --yes to confirm")
	}

	logger.Warn("resetting primary encryption key")

	if err := useCase.Reset(ctx); err != nil {
		return fmt.Errorf("failed to reset primary key: %w", err)
	}

	fmt.Fprintln(out, "Primary encryption key reset, a new key will be provisioned on next use")
	return nil
}
