package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/keyvault/internal/validation"
	vaultDomain "github.com/allisson/keyvault/internal/vault/domain"
)

// DecryptRequest contains the base64 envelope to open.
type DecryptRequest struct {
	Envelope string `json:"envelope"`
}

// Validate checks if the decrypt request is valid.
func (r *DecryptRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Envelope,
			validation.Required,
			customValidation.NoWhitespace,
			customValidation.Base64,
		),
	)
}

// DecryptResponse carries the recovered plaintext. MigratedFromFallback
// tells the client the value was recovered with the legacy fallback key and
// should be re-encrypted.
type DecryptResponse struct {
	Value                string `json:"value"`
	MigratedFromFallback bool   `json:"migrated_from_fallback"`
}

// MapDecryptResultToResponse converts a domain decrypt result to a response.
func MapDecryptResultToResponse(result *vaultDomain.DecryptResult) DecryptResponse {
	return DecryptResponse{
		Value:                result.Plaintext,
		MigratedFromFallback: result.MigratedFromFallback,
	}
}
