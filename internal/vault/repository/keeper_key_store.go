package repository

import (
	"context"
	"encoding/base64"

	"gocloud.dev/secrets"

	apperrors "github.com/allisson/keyvault/internal/errors"
	vaultDomain "github.com/allisson/keyvault/internal/vault/domain"

	// Register keeper provider drivers.
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// Keeper is the subset of *secrets.Keeper the decorator needs. Kept as an
// interface so tests can substitute a fake without a real KMS.
type Keeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
}

// KeeperKeyStore decorates an inner key store with an external KMS keeper.
//
// Key material is wrapped by the keeper before Put and unwrapped after Get,
// so the inner store only ever sees wrapped bytes. Supported keeper URIs
// mirror the registered gocloud.dev drivers: gcpkms://, awskms://,
// azurekeyvault://, hashivault://, base64key://.
type KeeperKeyStore struct {
	inner  KeyStoreBackend
	keeper Keeper
}

// KeyStoreBackend mirrors the service-side KeyStore contract; declared here
// so the decorator does not import the service package.
type KeyStoreBackend interface {
	Get(ctx context.Context, id string) (vaultDomain.KeyRecord, error)
	Put(ctx context.Context, record vaultDomain.KeyRecord) error
	Delete(ctx context.Context, id string) error
}

// OpenKeeper opens a *secrets.Keeper for the given provider URI.
func OpenKeeper(ctx context.Context, keyURI string) (*secrets.Keeper, error) {
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to open keeper")
	}
	return keeper, nil
}

// NewKeeperKeyStore wraps inner so that key material is protected by the
// keeper at rest.
func NewKeeperKeyStore(inner KeyStoreBackend, keeper Keeper) *KeeperKeyStore {
	return &KeeperKeyStore{
		inner:  inner,
		keeper: keeper,
	}
}

// Get retrieves a record from the inner store and unwraps its key material.
func (s *KeeperKeyStore) Get(ctx context.Context, id string) (vaultDomain.KeyRecord, error) {
	record, err := s.inner.Get(ctx, id)
	if err != nil {
		return vaultDomain.KeyRecord{}, err
	}

	wrapped, err := base64.StdEncoding.DecodeString(record.KeyMaterial)
	if err != nil {
		return vaultDomain.KeyRecord{}, apperrors.Wrap(vaultDomain.ErrKeyImport, err.Error())
	}

	raw, err := s.keeper.Decrypt(ctx, wrapped)
	if err != nil {
		return vaultDomain.KeyRecord{}, apperrors.Wrap(vaultDomain.ErrKeyImport, err.Error())
	}

	record.KeyMaterial = string(raw)
	return record, nil
}

// Put wraps the record's key material and stores the wrapped form.
func (s *KeeperKeyStore) Put(ctx context.Context, record vaultDomain.KeyRecord) error {
	wrapped, err := s.keeper.Encrypt(ctx, []byte(record.KeyMaterial))
	if err != nil {
		return apperrors.Wrap(vaultDomain.ErrKeyStore, err.Error())
	}

	record.KeyMaterial = base64.StdEncoding.EncodeToString(wrapped)
	return s.inner.Put(ctx, record)
}

// Delete removes the record from the inner store.
func (s *KeeperKeyStore) Delete(ctx context.Context, id string) error {
	return s.inner.Delete(ctx, id)
}
