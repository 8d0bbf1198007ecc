// Package mysql implements the key store adapter for MySQL.
package mysql

import (
	"context"
	"database/sql"
	"errors"

	apperrors "github.com/allisson/keyvault/internal/errors"
	vaultDomain "github.com/allisson/keyvault/internal/vault/domain"
)

// MySQLKeyStore persists key records in a MySQL key_records table.
// Put uses an upsert so the singleton identifier keeps last-write-wins
// semantics across processes.
type MySQLKeyStore struct {
	db *sql.DB
}

// NewMySQLKeyStore creates a MySQL-backed key store.
func NewMySQLKeyStore(db *sql.DB) *MySQLKeyStore {
	return &MySQLKeyStore{db: db}
}

// Get retrieves a key record by identifier.
func (s *MySQLKeyStore) Get(
	ctx context.Context,
	id string,
) (vaultDomain.KeyRecord, error) {
	query := `SELECT id, key_material, created_at
			  FROM key_records
			  WHERE id = ?`

	var record vaultDomain.KeyRecord
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&record.ID,
		&record.KeyMaterial,
		&record.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return vaultDomain.KeyRecord{}, apperrors.Wrap(apperrors.ErrNotFound, "key record")
		}
		return vaultDomain.KeyRecord{}, apperrors.Wrap(err, "failed to get key record")
	}

	return record, nil
}

// Put stores a key record, replacing any existing record with the same
// identifier.
func (s *MySQLKeyStore) Put(ctx context.Context, record vaultDomain.KeyRecord) error {
	query := `INSERT INTO key_records (id, key_material, created_at)
			  VALUES (?, ?, ?)
			  ON DUPLICATE KEY UPDATE
			  key_material = VALUES(key_material),
			  created_at = VALUES(created_at)`

	_, err := s.db.ExecContext(ctx, query, record.ID, record.KeyMaterial, record.CreatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to put key record")
	}

	return nil
}

// Delete removes a key record. Deleting an absent record is not an error.
func (s *MySQLKeyStore) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM key_records WHERE id = ?`

	_, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete key record")
	}

	return nil
}
