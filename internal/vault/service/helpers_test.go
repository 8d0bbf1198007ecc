package service

import (
	"crypto/sha256"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/pbkdf2"

	vaultDomain "github.com/allisson/keyvault/internal/vault/domain"
)

// testLogger returns a logger that discards output.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// deriveEncryptCapable reproduces the fallback derivation but imports the
// key with encrypt capability, to simulate ciphertext produced under the
// legacy device-derived scheme.
func deriveEncryptCapable(t *testing.T, env Environment) *vaultDomain.SymmetricKey {
	t.Helper()

	identifiers := []string{env.Agent, env.Locale, env.Platform}
	for i, id := range identifiers {
		if id == "" {
			identifiers[i] = vaultDomain.FallbackUnknown
		}
	}

	raw := pbkdf2.Key(
		[]byte(strings.Join(identifiers, vaultDomain.FallbackSeparator)),
		[]byte(vaultDomain.FallbackSalt),
		vaultDomain.FallbackIterations,
		vaultDomain.KeySize,
		sha256.New,
	)

	key, err := vaultDomain.ImportKey(
		raw,
		vaultDomain.FallbackKey,
		vaultDomain.UsageEncryptDecrypt,
	)
	require.NoError(t, err)
	return key
}
