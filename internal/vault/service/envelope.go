package service

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/allisson/keyvault/internal/errors"
	vaultDomain "github.com/allisson/keyvault/internal/vault/domain"
)

// EnvelopeCipherService implements the EnvelopeCipher interface using
// AES-256-GCM over non-extractable key handles.
//
// Wire format: base64(nonce(12 bytes) || ciphertext+tag(16 bytes)). Any
// consumer persisting or transmitting envelopes must preserve this exact
// byte layout.
//
// Security properties:
//   - A fresh 12-byte nonce is drawn from crypto/rand for every Seal call;
//     nonces are never reused under the same key.
//   - Open verifies the 16-byte authentication tag before returning any
//     plaintext, so tampered envelopes fail instead of yielding corrupted
//     data.
//   - Open reports one undifferentiated ErrDecryption for malformed base64,
//     short payloads, and authentication failures, to avoid acting as a
//     padding/format oracle.
//
// The service is stateless and safe for concurrent use.
type EnvelopeCipherService struct{}

// NewEnvelopeCipher creates a new EnvelopeCipherService.
func NewEnvelopeCipher() *EnvelopeCipherService {
	return &EnvelopeCipherService{}
}

// Seal encrypts plaintext under the key and returns the base64 envelope.
//
// The plaintext is encoded as UTF-8 bytes (Go strings already are), a fresh
// nonce is generated, and nonce || ciphertext+tag is base64-encoded with
// standard encoding. Returns ErrEncryption on any primitive failure and
// ErrKeyUsage if the key does not permit encryption; no partial state is
// written in either case.
func (e *EnvelopeCipherService) Seal(
	key *vaultDomain.SymmetricKey,
	plaintext string,
) (string, error) {
	if key == nil {
		return "", errors.Wrap(vaultDomain.ErrEncryption, "nil key")
	}
	if !key.CanEncrypt() {
		return "", vaultDomain.ErrKeyUsage
	}

	nonce := make([]byte, vaultDomain.NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", errors.Wrap(vaultDomain.ErrEncryption, err.Error())
	}

	// Seal appends ciphertext+tag directly after the nonce, producing the
	// envelope byte layout in one allocation.
	envelope := key.AEAD().Seal(nonce, nonce, []byte(plaintext), nil)

	return base64.StdEncoding.EncodeToString(envelope), nil
}

// Open decrypts a base64 envelope back to plaintext.
//
// The envelope is base64-decoded and split at byte 12 into nonce and
// authenticated payload. Returns ErrDecryption if decoding fails, if the
// payload is shorter than the nonce length, or if authentication fails;
// the caller cannot distinguish these causes.
func (e *EnvelopeCipherService) Open(
	key *vaultDomain.SymmetricKey,
	envelope string,
) (string, error) {
	if key == nil {
		return "", vaultDomain.ErrDecryption
	}
	if !key.CanDecrypt() {
		return "", vaultDomain.ErrKeyUsage
	}

	raw, err := base64.StdEncoding.DecodeString(envelope)
	if err != nil {
		return "", vaultDomain.ErrDecryption
	}
	if len(raw) < vaultDomain.NonceSize {
		return "", vaultDomain.ErrDecryption
	}

	nonce, payload := raw[:vaultDomain.NonceSize], raw[vaultDomain.NonceSize:]

	plaintext, err := key.AEAD().Open(nil, nonce, payload, nil)
	if err != nil {
		return "", vaultDomain.ErrDecryption
	}

	return string(plaintext), nil
}
