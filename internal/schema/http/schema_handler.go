// Package http provides the HTTP handler for schema example generation.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/keyvault/internal/httputil"
	"github.com/allisson/keyvault/internal/schema"
	"github.com/allisson/keyvault/internal/schema/http/dto"
	customValidation "github.com/allisson/keyvault/internal/validation"
)

// SchemaHandler handles HTTP requests for schema example generation.
type SchemaHandler struct {
	logger *slog.Logger
}

// NewSchemaHandler creates a new schema handler.
func NewSchemaHandler(logger *slog.Logger) *SchemaHandler {
	return &SchemaHandler{logger: logger}
}

// ExampleHandler generates a representative example value from a JSON schema.
// POST /v1/schema/example
// Returns 200 OK with the example; object examples keep the schema's declared
// property order.
func (h *SchemaHandler) ExampleHandler(c *gin.Context) {
	var req dto.ExampleRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	parsed, err := schema.Parse(req.Schema)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ExampleResponse{Example: schema.ToExample(parsed)})
}
