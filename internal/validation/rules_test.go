package validation

import (
	"testing"

	validation "github.com/jellydator/validation"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/allisson/keyvault/internal/errors"
)

func TestNotBlank(t *testing.T) {
	t.Run("accepts non-blank strings", func(t *testing.T) {
		assert.NoError(t, validation.Validate("sk-12345678", NotBlank))
	})

	t.Run("rejects blank strings", func(t *testing.T) {
		assert.Error(t, validation.Validate(" ", NotBlank))
		assert.Error(t, validation.Validate("\t\n", NotBlank))
	})
}

func TestNoWhitespace(t *testing.T) {
	t.Run("accepts trimmed strings", func(t *testing.T) {
		assert.NoError(t, validation.Validate("value", NoWhitespace))
	})

	t.Run("rejects surrounding whitespace", func(t *testing.T) {
		assert.Error(t, validation.Validate(" value", NoWhitespace))
		assert.Error(t, validation.Validate("value ", NoWhitespace))
	})
}

func TestBase64(t *testing.T) {
	t.Run("accepts valid base64", func(t *testing.T) {
		assert.NoError(t, validation.Validate("a2V5LW1hdGVyaWFs", Base64))
	})

	t.Run("accepts empty string", func(t *testing.T) {
		assert.NoError(t, validation.Validate("", Base64))
	})

	t.Run("rejects invalid base64", func(t *testing.T) {
		assert.Error(t, validation.Validate("not base64!", Base64))
	})
}

func TestWrapValidationError(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, WrapValidationError(nil))
	})

	t.Run("wraps as invalid input", func(t *testing.T) {
		err := WrapValidationError(validation.Validate(" ", NotBlank))
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}
