// Package http provides HTTP handlers for vault encryption operations.
// Values are sealed with AES-256-GCM under the persisted primary key;
// decryption is migration aware and falls back to the legacy derived key.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/keyvault/internal/httputil"
	"github.com/allisson/keyvault/internal/vault/http/dto"
	vaultUseCase "github.com/allisson/keyvault/internal/vault/usecase"
	customValidation "github.com/allisson/keyvault/internal/validation"
)

// VaultHandler handles HTTP requests for encryption, decryption, and key reset.
type VaultHandler struct {
	vaultUseCase vaultUseCase.VaultUseCase
	logger       *slog.Logger
}

// NewVaultHandler creates a new vault handler with required dependencies.
func NewVaultHandler(useCase vaultUseCase.VaultUseCase, logger *slog.Logger) *VaultHandler {
	return &VaultHandler{
		vaultUseCase: useCase,
		logger:       logger,
	}
}

// EncryptHandler seals a plaintext value under the primary key.
// POST /v1/vault/encrypt
// Returns 200 OK with the base64 envelope. The plaintext is never logged.
func (h *VaultHandler) EncryptHandler(c *gin.Context) {
	var req dto.EncryptRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	envelope, err := h.vaultUseCase.Encrypt(c.Request.Context(), req.Value)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.EncryptResponse{Envelope: envelope})
}

// DecryptHandler opens an envelope, trying the primary key first and the
// derived fallback key second.
// POST /v1/vault/decrypt
// Returns 200 OK with the plaintext and the migration flag; 422 when neither
// key opens the envelope.
func (h *VaultHandler) DecryptHandler(c *gin.Context) {
	var req dto.DecryptRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	result, err := h.vaultUseCase.Decrypt(c.Request.Context(), req.Envelope)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapDecryptResultToResponse(result))
}

// ResetHandler destroys the primary key record.
// DELETE /v1/vault/key
// Returns 204 No Content. All ciphertext produced under the destroyed key
// becomes permanently unreadable.
func (h *VaultHandler) ResetHandler(c *gin.Context) {
	if err := h.vaultUseCase.Reset(c.Request.Context()); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Warn("primary key reset via http api")

	c.Data(http.StatusNoContent, "application/json", nil)
}
