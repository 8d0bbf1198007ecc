package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/keyvault/internal/errors"
	vaultDomain "github.com/allisson/keyvault/internal/vault/domain"
	"github.com/allisson/keyvault/internal/vault/repository"
)

// countingKeyStore wraps a store and counts puts, to observe how many keys
// get generated under concurrent first-run provisioning.
type countingKeyStore struct {
	inner KeyStore

	mu   sync.Mutex
	puts int
}

func (s *countingKeyStore) Get(ctx context.Context, id string) (vaultDomain.KeyRecord, error) {
	return s.inner.Get(ctx, id)
}

func (s *countingKeyStore) Put(ctx context.Context, record vaultDomain.KeyRecord) error {
	s.mu.Lock()
	s.puts++
	s.mu.Unlock()
	return s.inner.Put(ctx, record)
}

func (s *countingKeyStore) Delete(ctx context.Context, id string) error {
	return s.inner.Delete(ctx, id)
}

// failingKeyStore fails every operation with the configured error.
type failingKeyStore struct {
	err error
}

func (s *failingKeyStore) Get(ctx context.Context, id string) (vaultDomain.KeyRecord, error) {
	return vaultDomain.KeyRecord{}, s.err
}

func (s *failingKeyStore) Put(ctx context.Context, record vaultDomain.KeyRecord) error {
	return s.err
}

func (s *failingKeyStore) Delete(ctx context.Context, id string) error {
	return s.err
}

func TestPersistentKeyManagerService_GetOrCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("provisions a new key on first use", func(t *testing.T) {
		store := repository.NewMemoryKeyStore()
		manager := NewPersistentKeyManager(store, testLogger())

		key, err := manager.GetOrCreate(ctx)
		require.NoError(t, err)
		assert.Equal(t, vaultDomain.PrimaryKey, key.Kind())
		assert.True(t, key.CanEncrypt())
		assert.True(t, key.CanDecrypt())

		record, err := store.Get(ctx, vaultDomain.PrimaryKeyRecordID)
		require.NoError(t, err)
		assert.Equal(t, vaultDomain.PrimaryKeyRecordID, record.ID)
		assert.False(t, record.CreatedAt.IsZero())

		raw, err := record.DecodeKeyMaterial()
		require.NoError(t, err)
		assert.Len(t, raw, vaultDomain.KeySize)
	})

	t.Run("loads the stored key on subsequent calls", func(t *testing.T) {
		store := repository.NewMemoryKeyStore()
		cipher := NewEnvelopeCipher()

		first := NewPersistentKeyManager(store, testLogger())
		key, err := first.GetOrCreate(ctx)
		require.NoError(t, err)

		envelope, err := cipher.Seal(key, "persisted secret")
		require.NoError(t, err)

		// Fresh manager simulates a process restart sharing the store.
		second := NewPersistentKeyManager(store, testLogger())
		restored, err := second.GetOrCreate(ctx)
		require.NoError(t, err)

		plaintext, err := cipher.Open(restored, envelope)
		require.NoError(t, err)
		assert.Equal(t, "persisted secret", plaintext)
	})

	t.Run("caches the imported key for the process lifetime", func(t *testing.T) {
		store := &countingKeyStore{inner: repository.NewMemoryKeyStore()}
		manager := NewPersistentKeyManager(store, testLogger())

		first, err := manager.GetOrCreate(ctx)
		require.NoError(t, err)

		second, err := manager.GetOrCreate(ctx)
		require.NoError(t, err)

		assert.Same(t, first, second)
		assert.Equal(t, 1, store.puts)
	})

	t.Run("concurrent first-run callers share one generated key", func(t *testing.T) {
		store := &countingKeyStore{inner: repository.NewMemoryKeyStore()}
		manager := NewPersistentKeyManager(store, testLogger())

		const callers = 16
		keys := make([]*vaultDomain.SymmetricKey, callers)

		var wg sync.WaitGroup
		for i := range callers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				key, err := manager.GetOrCreate(ctx)
				assert.NoError(t, err)
				keys[i] = key
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, store.puts)
		for _, key := range keys {
			assert.Same(t, keys[0], key)
		}
	})

	t.Run("corrupted record fails with key import error", func(t *testing.T) {
		store := repository.NewMemoryKeyStore()
		require.NoError(t, store.Put(ctx, vaultDomain.KeyRecord{
			ID:          vaultDomain.PrimaryKeyRecordID,
			KeyMaterial: "definitely-not-base64!!!",
		}))

		manager := NewPersistentKeyManager(store, testLogger())
		_, err := manager.GetOrCreate(ctx)
		assert.ErrorIs(t, err, vaultDomain.ErrKeyImport)
	})

	t.Run("store read failure surfaces as key store error", func(t *testing.T) {
		store := &failingKeyStore{err: errors.New("store down")}
		manager := NewPersistentKeyManager(store, testLogger())

		_, err := manager.GetOrCreate(ctx)
		assert.ErrorIs(t, err, vaultDomain.ErrKeyStore)
	})

	t.Run("put failure during provisioning fails with provision error", func(t *testing.T) {
		store := &putFailingKeyStore{inner: repository.NewMemoryKeyStore(), err: errors.New("write denied")}
		manager := NewPersistentKeyManager(store, testLogger())

		_, err := manager.GetOrCreate(ctx)
		assert.ErrorIs(t, err, vaultDomain.ErrKeyProvision)
	})
}

// putFailingKeyStore reads fine but refuses writes.
type putFailingKeyStore struct {
	inner KeyStore
	err   error
}

func (s *putFailingKeyStore) Get(ctx context.Context, id string) (vaultDomain.KeyRecord, error) {
	return s.inner.Get(ctx, id)
}

func (s *putFailingKeyStore) Put(ctx context.Context, record vaultDomain.KeyRecord) error {
	return s.err
}

func (s *putFailingKeyStore) Delete(ctx context.Context, id string) error {
	return s.inner.Delete(ctx, id)
}

func TestPersistentKeyManagerService_Reset(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes record and invalidates cache", func(t *testing.T) {
		store := repository.NewMemoryKeyStore()
		manager := NewPersistentKeyManager(store, testLogger())
		cipher := NewEnvelopeCipher()

		oldKey, err := manager.GetOrCreate(ctx)
		require.NoError(t, err)

		envelope, err := cipher.Seal(oldKey, "pre-reset secret")
		require.NoError(t, err)

		require.NoError(t, manager.Reset(ctx))

		_, err = store.Get(ctx, vaultDomain.PrimaryKeyRecordID)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)

		// A new key is provisioned and cannot open the old envelope.
		newKey, err := manager.GetOrCreate(ctx)
		require.NoError(t, err)
		assert.NotSame(t, oldKey, newKey)

		_, err = cipher.Open(newKey, envelope)
		assert.ErrorIs(t, err, vaultDomain.ErrDecryption)
	})

	t.Run("reset without a record is not an error", func(t *testing.T) {
		manager := NewPersistentKeyManager(repository.NewMemoryKeyStore(), testLogger())
		assert.NoError(t, manager.Reset(ctx))
	})

	t.Run("store delete failure surfaces as key store error", func(t *testing.T) {
		manager := NewPersistentKeyManager(
			&failingKeyStore{err: errors.New("permission denied")},
			testLogger(),
		)
		assert.ErrorIs(t, manager.Reset(ctx), vaultDomain.ErrKeyStore)
	})
}
