// Package postgresql implements the key store adapter for PostgreSQL.
package postgresql

import (
	"context"
	"database/sql"
	"errors"

	apperrors "github.com/allisson/keyvault/internal/errors"
	vaultDomain "github.com/allisson/keyvault/internal/vault/domain"
)

// PostgreSQLKeyStore persists key records in a PostgreSQL key_records table.
// Put uses an upsert so the singleton identifier keeps last-write-wins
// semantics across processes.
type PostgreSQLKeyStore struct {
	db *sql.DB
}

// NewPostgreSQLKeyStore creates a PostgreSQL-backed key store.
func NewPostgreSQLKeyStore(db *sql.DB) *PostgreSQLKeyStore {
	return &PostgreSQLKeyStore{db: db}
}

// Get retrieves a key record by identifier.
func (s *PostgreSQLKeyStore) Get(
	ctx context.Context,
	id string,
) (vaultDomain.KeyRecord, error) {
	query := `SELECT id, key_material, created_at
			  FROM key_records
			  WHERE id = $1`

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
func (s *PostgreSQLKeyStore) Put(ctx context.Context, record vaultDomain.KeyRecord) error {
	query := `INSERT INTO key_records (id, key_material, created_at)
			  VALUES ($1, $2, $3)
			  ON CONFLICT (id) DO UPDATE
			  SET key_material = EXCLUDED.key_material,
			      created_at = EXCLUDED.created_at`

	_, err := s.db.ExecContext(ctx, query, record.ID, record.KeyMaterial, record.CreatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to put key record")
	}

	return nil
}

// Delete removes a key record. Deleting an absent record is not an error.
func (s *PostgreSQLKeyStore) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM key_records WHERE id = $1`

	_, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete key record")
	}

	return nil
}
