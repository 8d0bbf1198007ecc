// Package repository provides key store adapters for the singleton key
// record: in-memory, file-backed, SQL-backed, and a keeper decorator that
// wraps key material with an external KMS before it reaches the inner store.
package repository

import (
	"context"
	"sync"

	apperrors "github.com/allisson/keyvault/internal/errors"
	vaultDomain "github.com/allisson/keyvault/internal/vault/domain"
)

// MemoryKeyStore is an in-memory key store, used in tests and as a
// throwaway backend when persistence across restarts is not wanted.
// Safe for concurrent use.
type MemoryKeyStore struct {
	mu      sync.RWMutex
	records map[string]vaultDomain.KeyRecord
}

// NewMemoryKeyStore creates an empty in-memory key store.
func NewMemoryKeyStore() *MemoryKeyStore {
	return &MemoryKeyStore{
		records: make(map[string]vaultDomain.KeyRecord),
	}
}

// Get retrieves a key record by identifier.
func (s *MemoryKeyStore) Get(ctx context.Context, id string) (vaultDomain.KeyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[id]
	if !ok {
		return vaultDomain.KeyRecord{}, apperrors.Wrap(apperrors.ErrNotFound, "key record")
	}
	return record, nil
}

// Put stores a key record, replacing any existing record with the same
// identifier.
func (s *MemoryKeyStore) Put(ctx context.Context, record vaultDomain.KeyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[record.ID] = record
	return nil
}

// Delete removes a key record. Deleting an absent record is not an error.
func (s *MemoryKeyStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, id)
	return nil
}
