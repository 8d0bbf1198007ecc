package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vaultDomain "github.com/allisson/keyvault/internal/vault/domain"
	"github.com/allisson/keyvault/internal/vault/http/dto"
	"github.com/allisson/keyvault/internal/vault/repository"
	vaultService "github.com/allisson/keyvault/internal/vault/service"
	vaultUseCase "github.com/allisson/keyvault/internal/vault/usecase"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeVaultUseCase drives error paths without a real key store.
type fakeVaultUseCase struct {
	encryptFn func(ctx context.Context, plaintext string) (string, error)
	decryptFn func(ctx context.Context, envelope string) (*vaultDomain.DecryptResult, error)
	resetFn   func(ctx context.Context) error
}

func (f *fakeVaultUseCase) Encrypt(ctx context.Context, plaintext string) (string, error) {
	return f.encryptFn(ctx, plaintext)
}

func (f *fakeVaultUseCase) Decrypt(
	ctx context.Context,
	envelope string,
) (*vaultDomain.DecryptResult, error) {
	return f.decryptFn(ctx, envelope)
}

func (f *fakeVaultUseCase) Reset(ctx context.Context) error {
	return f.resetFn(ctx)
}

func newTestRouter(useCase vaultUseCase.VaultUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewVaultHandler(useCase, testLogger())

	router := gin.New()
	router.POST("/v1/vault/encrypt", handler.EncryptHandler)
	router.POST("/v1/vault/decrypt", handler.DecryptHandler)
	router.DELETE("/v1/vault/key", handler.ResetHandler)
	return router
}

func newRealUseCase() vaultUseCase.VaultUseCase {
	store := repository.NewMemoryKeyStore()
	manager := vaultService.NewPersistentKeyManager(store, testLogger())
	deriver := vaultService.NewFallbackDeriver(vaultService.Environment{
		Agent:    "test-agent",
		Locale:   "en-US",
		Platform: "linux",
	})
	return vaultUseCase.NewVaultUseCase(manager, deriver, vaultService.NewEnvelopeCipher(), testLogger())
}

func postJSON(router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestVaultHandler_Encrypt(t *testing.T) {
	t.Run("Success_SealsValue", func(t *testing.T) {
		router := newTestRouter(newRealUseCase())

		w := postJSON(router, "/v1/vault/encrypt", dto.EncryptRequest{Value: "sk-12345678"})
		require.Equal(t, http.StatusOK, w.Code)

		var resp dto.EncryptResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Envelope)
		assert.NotContains(t, resp.Envelope, "sk-12345678")
	})

	t.Run("ValidationError_EmptyValue", func(t *testing.T) {
		router := newTestRouter(newRealUseCase())

		w := postJSON(router, "/v1/vault/encrypt", dto.EncryptRequest{Value: ""})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("BadRequest_MalformedJSON", func(t *testing.T) {
		router := newTestRouter(newRealUseCase())

		w := httptest.NewRecorder()
		req := httptest.NewRequest(
			http.MethodPost,
			"/v1/vault/encrypt",
			bytes.NewReader([]byte(`{"value": `)),
		)
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Unavailable_KeyStoreDown", func(t *testing.T) {
		router := newTestRouter(&fakeVaultUseCase{
			encryptFn: func(ctx context.Context, plaintext string) (string, error) {
				return "", vaultDomain.ErrKeyStore
			},
		})

		w := postJSON(router, "/v1/vault/encrypt", dto.EncryptRequest{Value: "sk-12345678"})
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestVaultHandler_Decrypt(t *testing.T) {
	t.Run("Success_RoundTrip", func(t *testing.T) {
		useCase := newRealUseCase()
		router := newTestRouter(useCase)

		envelope, err := useCase.Encrypt(context.Background(), "sk-12345678")
		require.NoError(t, err)

		w := postJSON(router, "/v1/vault/decrypt", dto.DecryptRequest{Envelope: envelope})
		require.Equal(t, http.StatusOK, w.Code)

		var resp dto.DecryptResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "sk-12345678", resp.Value)
		assert.False(t, resp.MigratedFromFallback)
	})

	t.Run("Success_FallbackMigrationFlag", func(t *testing.T) {
		router := newTestRouter(&fakeVaultUseCase{
			decryptFn: func(ctx context.Context, envelope string) (*vaultDomain.DecryptResult, error) {
				return &vaultDomain.DecryptResult{
					Plaintext:            "legacy secret",
					MigratedFromFallback: true,
				}, nil
			},
		})

		w := postJSON(router, "/v1/vault/decrypt", dto.DecryptRequest{Envelope: "bGVnYWN5LWVudmVsb3Bl"})
		require.Equal(t, http.StatusOK, w.Code)

		var resp dto.DecryptResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.MigratedFromFallback)
	})

	t.Run("ValidationError_NotBase64", func(t *testing.T) {
		router := newTestRouter(newRealUseCase())

		w := postJSON(router, "/v1/vault/decrypt", dto.DecryptRequest{Envelope: "not base64!"})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("UnprocessableEntity_BothAttemptsFail", func(t *testing.T) {
		router := newTestRouter(newRealUseCase())

		// Valid base64, but not an envelope either key can open.
		w := postJSON(router, "/v1/vault/decrypt", dto.DecryptRequest{
			Envelope: "bm90LWEtcmVhbC1lbnZlbG9wZS1hdC1hbGwtaGVyZQ==",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestVaultHandler_Reset(t *testing.T) {
	t.Run("Success_NoContent", func(t *testing.T) {
		useCase := newRealUseCase()
		router := newTestRouter(useCase)

		envelope, err := useCase.Encrypt(context.Background(), "doomed")
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/v1/vault/key", nil)
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusNoContent, w.Code)

		// The old envelope is gone for good.
		w = postJSON(router, "/v1/vault/decrypt", dto.DecryptRequest{Envelope: envelope})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Unavailable_StoreFailure", func(t *testing.T) {
		router := newTestRouter(&fakeVaultUseCase{
			resetFn: func(ctx context.Context) error {
				return vaultDomain.ErrKeyStore
			},
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/v1/vault/key", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}
