package domain

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportKey(t *testing.T) {
	raw := make([]byte, KeySize)
	_, err := rand.Read(raw)
	require.NoError(t, err)

	t.Run("imports valid 256-bit key", func(t *testing.T) {
		key, err := ImportKey(raw, PrimaryKey, UsageEncryptDecrypt)
		require.NoError(t, err)

		assert.Equal(t, PrimaryKey, key.Kind())
		assert.True(t, key.CanEncrypt())
		assert.True(t, key.CanDecrypt())
		assert.NotNil(t, key.AEAD())
		assert.Equal(t, NonceSize, key.AEAD().NonceSize())
	})

	t.Run("rejects invalid key size", func(t *testing.T) {
		_, err := ImportKey(make([]byte, 16), PrimaryKey, UsageEncryptDecrypt)
		assert.ErrorIs(t, err, ErrKeyImport)
	})

	t.Run("handle survives zeroing the raw bytes", func(t *testing.T) {
		material := make([]byte, KeySize)
		copy(material, raw)

		key, err := ImportKey(material, PrimaryKey, UsageEncryptDecrypt)
		require.NoError(t, err)

		nonce := make([]byte, NonceSize)
		sealed := key.AEAD().Seal(nil, nonce, []byte("payload"), nil)

		Zero(material)

		opened, err := key.AEAD().Open(nil, nonce, sealed, nil)
		require.NoError(t, err)
		assert.Equal(t, []byte("payload"), opened)
	})

	t.Run("decrypt-only key cannot encrypt", func(t *testing.T) {
		key, err := ImportKey(raw, FallbackKey, UsageDecrypt)
		require.NoError(t, err)

		assert.False(t, key.CanEncrypt())
		assert.True(t, key.CanDecrypt())
	})
}

func TestDecryptionFailedError(t *testing.T) {
	primaryErr := ErrDecryption
	fallbackErr := ErrDecryption

	err := &DecryptionFailedError{PrimaryErr: primaryErr, FallbackErr: fallbackErr}

	assert.ErrorIs(t, err, ErrDecryptionFailed)
	assert.Contains(t, err.Error(), "primary")
	assert.Contains(t, err.Error(), "fallback")

	var dfe *DecryptionFailedError
	require.ErrorAs(t, error(err), &dfe)
	assert.Equal(t, primaryErr, dfe.PrimaryErr)
	assert.Equal(t, fallbackErr, dfe.FallbackErr)
}
