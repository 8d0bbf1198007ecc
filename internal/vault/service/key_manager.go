package service

import (
	"context"
	"crypto/rand"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	apperrors "github.com/allisson/keyvault/internal/errors"
	vaultDomain "github.com/allisson/keyvault/internal/vault/domain"
)

// PersistentKeyManagerService implements the KeyManager interface over an
// external KeyStore.
//
// It owns the get-or-create protocol for the singleton key record:
//
//	read record -> present -> decode + import (ErrKeyImport if corrupt)
//	            -> absent  -> generate 32 random bytes, persist, re-import
//
// Provisioning is serialized with singleflight keyed on the record
// identifier, so concurrent first-run callers inside one process share a
// single generated key instead of racing. Across independent processes the
// store's put semantics still decide the winner (last write wins on the
// fixed identifier); a losing process wastes one generated key, which is
// safe but is why multi-process deployments should share a store.
//
// The imported key is cached for the process lifetime as an optimization;
// Reset invalidates the cache before deleting the record.
type PersistentKeyManagerService struct {
	store  KeyStore
	logger *slog.Logger

	group singleflight.Group

	mu     sync.Mutex
	cached *vaultDomain.SymmetricKey
}

// NewPersistentKeyManager creates a PersistentKeyManagerService backed by
// the given key store.
func NewPersistentKeyManager(store KeyStore, logger *slog.Logger) *PersistentKeyManagerService {
	return &PersistentKeyManagerService{
		store:  store,
		logger: logger,
	}
}

// GetOrCreate returns the primary key, provisioning one on first use.
//
// Returns ErrKeyImport when a stored record exists but does not decode to a
// valid 256-bit key (callers must treat this as "no usable primary key"),
// and ErrKeyProvision when generation or storage of a new key fails.
func (m *PersistentKeyManagerService) GetOrCreate(
	ctx context.Context,
) (*vaultDomain.SymmetricKey, error) {
	m.mu.Lock()
	if m.cached != nil {
		key := m.cached
		m.mu.Unlock()
		return key, nil
	}
	m.mu.Unlock()

	result, err, _ := m.group.Do(vaultDomain.PrimaryKeyRecordID, func() (any, error) {
		return m.loadOrProvision(ctx)
	})
	if err != nil {
		return nil, err
	}

	key := result.(*vaultDomain.SymmetricKey)

	m.mu.Lock()
	m.cached = key
	m.mu.Unlock()

	return key, nil
}

// Reset deletes the key record and drops the cached key.
//
// Irrecoverably invalidates all ciphertext produced under the deleted key.
// Deleting a non-existent record is not an error; only a genuine store
// failure surfaces, as ErrKeyStore.
func (m *PersistentKeyManagerService) Reset(ctx context.Context) error {
	m.mu.Lock()
	m.cached = nil
	m.mu.Unlock()

	if err := m.store.Delete(ctx, vaultDomain.PrimaryKeyRecordID); err != nil {
		return apperrors.Wrap(vaultDomain.ErrKeyStore, err.Error())
	}

	m.logger.Info("primary key record deleted",
		slog.String("record_id", vaultDomain.PrimaryKeyRecordID),
	)

	return nil
}

// loadOrProvision performs one get-or-create pass against the store.
func (m *PersistentKeyManagerService) loadOrProvision(
	ctx context.Context,
) (*vaultDomain.SymmetricKey, error) {
	record, err := m.store.Get(ctx, vaultDomain.PrimaryKeyRecordID)
	if err == nil {
		return importRecord(record)
	}
	if !apperrors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.Wrap(vaultDomain.ErrKeyStore, err.Error())
	}

	return m.provision(ctx)
}

// provision generates a fresh 256-bit key, persists it, and re-imports the
// raw bytes for use. The exported copy is zeroed after storage; only the
// store retains recoverable key material.
func (m *PersistentKeyManagerService) provision(
	ctx context.Context,
) (*vaultDomain.SymmetricKey, error) {
	raw := make([]byte, vaultDomain.KeySize)
	if _, err := rand.Read(raw); err != nil {
		return nil, apperrors.Wrap(vaultDomain.ErrKeyProvision, err.Error())
	}
	defer vaultDomain.Zero(raw)

	record, err := vaultDomain.NewKeyRecord(raw)
	if err != nil {
		return nil, apperrors.Wrap(vaultDomain.ErrKeyProvision, err.Error())
	}

	if err := m.store.Put(ctx, record); err != nil {
		return nil, apperrors.Wrap(vaultDomain.ErrKeyProvision, err.Error())
	}

	key, err := vaultDomain.ImportKey(
		raw,
		vaultDomain.PrimaryKey,
		vaultDomain.UsageEncryptDecrypt,
	)
	if err != nil {
		return nil, apperrors.Wrap(vaultDomain.ErrKeyProvision, err.Error())
	}

	m.logger.Info("primary key provisioned",
		slog.String("record_id", record.ID),
		slog.Time("created_at", record.CreatedAt),
	)

	return key, nil
}

// importRecord decodes a stored record and imports it as a non-extractable
// key usable for encryption and decryption.
func importRecord(record vaultDomain.KeyRecord) (*vaultDomain.SymmetricKey, error) {
	raw, err := record.DecodeKeyMaterial()
	if err != nil {
		return nil, err
	}
	defer vaultDomain.Zero(raw)

	return vaultDomain.ImportKey(
		raw,
		vaultDomain.PrimaryKey,
		vaultDomain.UsageEncryptDecrypt,
	)
}
