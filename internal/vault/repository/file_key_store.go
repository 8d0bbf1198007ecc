package repository

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	apperrors "github.com/allisson/keyvault/internal/errors"
	vaultDomain "github.com/allisson/keyvault/internal/vault/domain"
)

// fileKeyRecord is the on-disk representation of a key record.
type fileKeyRecord struct {
	ID          string    `json:"id"`
	KeyMaterial string    `json:"key_material"`
	CreatedAt   time.Time `json:"created_at"`
}

// FileKeyStore persists key records in a JSON file, the default backend for
// the desktop use case. The file is written atomically (temp file + rename)
// with 0600 permissions so the key material survives restarts without being
// world-readable. A mutex serializes file access within the process.
type FileKeyStore struct {
	path string
	mu   sync.Mutex
}

// NewFileKeyStore creates a file-backed key store at the given path. The
// parent directory is created on first write, not here.
func NewFileKeyStore(path string) *FileKeyStore {
	return &FileKeyStore{path: path}
}

// Get retrieves a key record by identifier. A missing file and a missing
// identifier both report errors.ErrNotFound.
func (s *FileKeyStore) Get(ctx context.Context, id string) (vaultDomain.KeyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return vaultDomain.KeyRecord{}, err
	}

	record, ok := records[id]
	if !ok {
		return vaultDomain.KeyRecord{}, apperrors.Wrap(apperrors.ErrNotFound, "key record")
	}

	return vaultDomain.KeyRecord{
		ID:          record.ID,
		KeyMaterial: record.KeyMaterial,
		CreatedAt:   record.CreatedAt,
	}, nil
}

// Put stores a key record, replacing any existing record with the same
// identifier.
func (s *FileKeyStore) Put(ctx context.Context, record vaultDomain.KeyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil && !apperrors.Is(err, apperrors.ErrNotFound) {
		return err
	}
	if records == nil {
		records = make(map[string]fileKeyRecord)
	}

	records[record.ID] = fileKeyRecord{
		ID:          record.ID,
		KeyMaterial: record.KeyMaterial,
		CreatedAt:   record.CreatedAt,
	}

	return s.save(records)
}

// Delete removes a key record. Deleting an absent record (or an absent
// file) is not an error.
func (s *FileKeyStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return err
	}

	if _, ok := records[id]; !ok {
		return nil
	}

	delete(records, id)
	return s.save(records)
}

// load reads and decodes the store file. Reports errors.ErrNotFound when
// the file does not exist yet.
func (s *FileKeyStore) load() (map[string]fileKeyRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Wrap(apperrors.ErrNotFound, "key store file")
		}
		return nil, apperrors.Wrap(err, "failed to read key store file")
	}

	records := make(map[string]fileKeyRecord)
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode key store file")
	}

	return records, nil
}

// save encodes and atomically writes the store file with 0600 permissions.
func (s *FileKeyStore) save(records map[string]fileKeyRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return apperrors.Wrap(err, "failed to encode key store file")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return apperrors.Wrap(err, "failed to create key store directory")
	}

	tmp, err := os.CreateTemp(dir, ".keystore-*")
	if err != nil {
		return apperrors.Wrap(err, "failed to create temp key store file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return apperrors.Wrap(err, "failed to write key store file")
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return apperrors.Wrap(err, "failed to set key store permissions")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return apperrors.Wrap(err, "failed to close key store file")
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return apperrors.Wrap(err, "failed to replace key store file")
	}

	return nil
}
