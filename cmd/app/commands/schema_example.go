package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/allisson/keyvault/internal/schema"
)

// RunSchemaExample parses a JSON schema document and writes a generated
// example payload to out. The schema is read from file when filePath is set,
// otherwise from the inline schemaJSON argument.
func RunSchemaExample(out io.Writer, schemaJSON, filePath string) error {
	data := []byte(schemaJSON)
	if filePath != "" {
		fileData, err := os.ReadFile(filePath)
		if err != nil {
			return fmt.Errorf("failed to read schema file: %w", err)
		}
		data = fileData
	}
	if len(data) == 0 {
		return fmt.Errorf("schema must be provided inline or via --file")
	}

	parsed, err := schema.Parse(data)
	if err != nil {
		return fmt.Errorf("failed to parse schema: %w", err)
	}

	jsonBytes, err := json.MarshalIndent(schema.ToExample(parsed), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal example: %w", err)
	}

	fmt.Fprintln(out, string(jsonBytes))
	return nil
}
