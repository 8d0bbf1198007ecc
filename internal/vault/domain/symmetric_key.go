package domain

import (
	"crypto/aes"
	"crypto/cipher"

	"github.com/allisson/keyvault/internal/errors"
)

// KeyKind identifies how a symmetric key was obtained.
type KeyKind string

const (
	// PrimaryKey is the randomly generated, persisted key used for all new
	// encryption.
	PrimaryKey KeyKind = "primary"

	// FallbackKey is derived deterministically from environment data and is
	// never persisted. It exists only to decrypt legacy ciphertext.
	FallbackKey KeyKind = "fallback"
)

// KeyUsage declares the operations a key may perform.
type KeyUsage uint8

const (
	// UsageDecrypt allows decryption only.
	UsageDecrypt KeyUsage = 1 << iota

	// UsageEncrypt allows encryption only.
	UsageEncrypt

	// UsageEncryptDecrypt allows both operations.
	UsageEncryptDecrypt = UsageEncrypt | UsageDecrypt
)

// SymmetricKey is an opaque handle over 256-bit AES-GCM key material.
//
// Importing a key constructs the AEAD primitive and discards the raw bytes:
// once imported, the key material is not retrievable from the handle
// (non-extractability). The handle is tagged with its kind and usage mode;
// the envelope cipher enforces usage before every operation.
//
// A SymmetricKey is stateless after construction and safe for concurrent
// use from multiple goroutines.
type SymmetricKey struct {
	kind  KeyKind
	usage KeyUsage
	aead  cipher.AEAD
}

// ImportKey imports raw 32-byte key material as a non-extractable AES-256-GCM
// key. The caller keeps ownership of raw and should zero it after the call;
// the handle retains no reference to it.
//
// Returns ErrKeyImport if the material is not a valid 256-bit key.
func ImportKey(raw []byte, kind KeyKind, usage KeyUsage) (*SymmetricKey, error) {
	if len(raw) != KeySize {
		return nil, errors.Wrap(ErrKeyImport, "key must be exactly 32 bytes")
	}

	block, err := aes.NewCipher(raw)
	if err != nil {
		return nil, errors.Wrap(ErrKeyImport, err.Error())
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.Wrap(ErrKeyImport, err.Error())
	}

	return &SymmetricKey{
		kind:  kind,
		usage: usage,
		aead:  aead,
	}, nil
}

// Kind returns how the key was obtained.
func (k *SymmetricKey) Kind() KeyKind {
	return k.kind
}

// CanEncrypt reports whether the key's usage mode allows encryption.
func (k *SymmetricKey) CanEncrypt() bool {
	return k.usage&UsageEncrypt != 0
}

// CanDecrypt reports whether the key's usage mode allows decryption.
func (k *SymmetricKey) CanDecrypt() bool {
	return k.usage&UsageDecrypt != 0
}

// AEAD exposes the sealed AES-GCM primitive. The primitive can encrypt and
// decrypt but provides no path back to the raw key bytes.
func (k *SymmetricKey) AEAD() cipher.AEAD {
	return k.aead
}
