// Package domain defines the key lifecycle model for envelope encryption:
// the persisted key record, imported symmetric keys, and the errors the
// key state machine can surface.
package domain

import (
	"encoding/base64"
	"time"

	"github.com/allisson/keyvault/internal/errors"
)

// KeyRecord is the persisted form of the primary symmetric key.
//
// The record is a process-wide singleton addressed by PrimaryKeyRecordID.
// It is created on first use, replaced wholesale on re-provisioning, and
// destroyed only by an explicit reset. Only the store retains recoverable
// key material; in-process keys are imported as non-extractable.
//
// Fields:
//   - ID: fixed singleton identifier (PrimaryKeyRecordID)
//   - KeyMaterial: base64-encoded raw 32-byte key
//   - CreatedAt: provisioning timestamp (UTC)
type KeyRecord struct {
	ID          string
	KeyMaterial string
	CreatedAt   time.Time
}

// NewKeyRecord builds the singleton key record from raw key material.
// The raw bytes are encoded for storage; the caller should zero its copy
// after the record has been written.
func NewKeyRecord(raw []byte) (KeyRecord, error) {
	if len(raw) != KeySize {
		return KeyRecord{}, errors.Wrap(ErrKeyImport, "raw key must be 32 bytes")
	}

	return KeyRecord{
		ID:          PrimaryKeyRecordID,
		KeyMaterial: base64.StdEncoding.EncodeToString(raw),
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// DecodeKeyMaterial decodes the stored base64 key material back to raw
// bytes. Returns ErrKeyImport if the material is not valid base64 or does
// not decode to exactly 32 bytes; callers must treat that as "no usable
// primary key". The returned slice should be zeroed after import.
func (r KeyRecord) DecodeKeyMaterial() ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(r.KeyMaterial)
	if err != nil {
		return nil, errors.Wrap(ErrKeyImport, err.Error())
	}
	if len(raw) != KeySize {
		Zero(raw)
		return nil, errors.Wrap(ErrKeyImport, "stored key is not 256 bits")
	}
	return raw, nil
}
