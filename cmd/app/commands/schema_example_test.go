package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSchemaExample(t *testing.T) {
	schemaJSON := `{"type":"object","properties":{"zebra":{"type":"string"},"apple":{"type":"integer"}}}`

	t.Run("inline-schema", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, RunSchemaExample(&out, schemaJSON, ""))

		// Property order from the schema document is preserved.
		assert.Equal(t, "{\n  \"zebra\": \"string\",\n  \"apple\": 0\n}\n", out.String())
	})

	t.Run("schema-from-file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "schema.json")
		require.NoError(t, os.WriteFile(path, []byte(schemaJSON), 0o600))

		var out bytes.Buffer
		require.NoError(t, RunSchemaExample(&out, "", path))
		assert.Contains(t, out.String(), `"zebra": "string"`)
	})

	t.Run("missing-schema", func(t *testing.T) {
		err := RunSchemaExample(&bytes.Buffer{}, "", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "schema must be provided")
	})

	t.Run("malformed-schema", func(t *testing.T) {
		err := RunSchemaExample(&bytes.Buffer{}, `{"type":`, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse schema")
	})

	t.Run("missing-file", func(t *testing.T) {
		err := RunSchemaExample(&bytes.Buffer{}, "", filepath.Join(t.TempDir(), "absent.json"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read schema file")
	})
}
