// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"
)

// EncryptRequest contains the plaintext value to seal.
type EncryptRequest struct {
	Value string `json:"value"`
}

// Validate checks if the encrypt request is valid.
func (r *EncryptRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Value,
			validation.Required,
		),
	)
}

// EncryptResponse carries the base64 ciphertext envelope.
type EncryptResponse struct {
	Envelope string `json:"envelope"`
}
