package service

import (
	"crypto/sha256"
	"strings"

	"golang.org/x/crypto/pbkdf2"

	vaultDomain "github.com/allisson/keyvault/internal/vault/domain"
)

// Environment holds the environment-identifying strings the fallback key is
// derived from. Identifiers left empty fall back to the fixed sentinel so
// the derivation input is always well defined.
type Environment struct {
	Agent    string
	Locale   string
	Platform string
}

// FallbackDeriverService implements the FallbackDeriver interface with
// PBKDF2-HMAC-SHA256.
//
// The derivation is purely deterministic: the same environment identifiers
// always yield the same 256-bit key. No randomness and no persistence are
// involved. The constants (salt, iteration count, separator) match the
// legacy device-derived scheme bit-for-bit; ciphertext produced before the
// persisted-key scheme existed can only be recovered with them intact.
//
// The derived key is imported decrypt-only: the fallback path is a read
// path for legacy data and must never produce new ciphertext.
type FallbackDeriverService struct {
	env Environment
}

// NewFallbackDeriver creates a FallbackDeriverService for the given
// environment identifiers.
func NewFallbackDeriver(env Environment) *FallbackDeriverService {
	return &FallbackDeriverService{env: env}
}

// Derive produces the decrypt-only fallback key.
//
// Input is the join of agent, locale, and platform with "::" (each replaced
// by the "unknown" sentinel when empty), stretched with 100,000 rounds of
// PBKDF2-HMAC-SHA256 under the fixed textual salt into a 32-byte AES-GCM
// key. The intermediate key bytes are zeroed after import.
func (f *FallbackDeriverService) Derive() (*vaultDomain.SymmetricKey, error) {
	input := strings.Join([]string{
		orUnknown(f.env.Agent),
		orUnknown(f.env.Locale),
		orUnknown(f.env.Platform),
	}, vaultDomain.FallbackSeparator)

	raw := pbkdf2.Key(
		[]byte(input),
		[]byte(vaultDomain.FallbackSalt),
		vaultDomain.FallbackIterations,
		vaultDomain.KeySize,
		sha256.New,
	)
	defer vaultDomain.Zero(raw)

	return vaultDomain.ImportKey(raw, vaultDomain.FallbackKey, vaultDomain.UsageDecrypt)
}

// orUnknown substitutes the fixed sentinel for unavailable identifiers.
func orUnknown(s string) string {
	if s == "" {
		return vaultDomain.FallbackUnknown
	}
	return s
}
