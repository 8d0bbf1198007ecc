// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"encoding/json"

	validation "github.com/jellydator/validation"
)

// ExampleRequest carries the JSON schema to generate an example for.
type ExampleRequest struct {
	Schema json.RawMessage `json:"schema"`
}

// Validate checks if the example request is valid.
func (r *ExampleRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Schema,
			validation.Required,
		),
	)
}

// ExampleResponse carries the generated example value.
type ExampleResponse struct {
	Example any `json:"example"`
}
