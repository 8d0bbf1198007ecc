// Package schema implements a small JSON-schema subset and the generation of
// representative example values from it. Object property order is preserved
// through parsing and marshaling so generated examples mirror the declared
// schema layout.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/allisson/keyvault/internal/errors"
)

// Property is one named object property in declaration order.
type Property struct {
	Name   string
	Schema *Schema
}

// Schema is the parsed subset of a JSON schema relevant to example
// generation. Unknown keywords are skipped during parsing.
type Schema struct {
	Type       string
	Format     string
	Ref        string
	Example    any
	Enum       []any
	Properties []Property
	Items      *Schema
}

// UnmarshalJSON parses a schema object with a token walk instead of a map so
// the declared property order survives.
func (s *Schema) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	if err := expectDelim(dec, '{'); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return errors.Wrap(errors.ErrInvalidInput, err.Error())
		}
		key, ok := keyTok.(string)
		if !ok {
			return errors.Wrap(errors.ErrInvalidInput, "schema object key is not a string")
		}

		if err := s.decodeField(dec, key); err != nil {
			return err
		}
	}

	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}

	return nil
}

// decodeField decodes the value for one schema keyword.
func (s *Schema) decodeField(dec *json.Decoder, key string) error {
	var err error

	switch key {
	case "type":
		err = dec.Decode(&s.Type)
	case "format":
		err = dec.Decode(&s.Format)
	case "$ref":
		err = dec.Decode(&s.Ref)
	case "example":
		err = dec.Decode(&s.Example)
	case "enum":
		err = dec.Decode(&s.Enum)
	case "items":
		s.Items = &Schema{}
		err = dec.Decode(s.Items)
	case "properties":
		err = s.decodeProperties(dec)
	default:
		var skipped json.RawMessage
		err = dec.Decode(&skipped)
	}

	if err != nil {
		return errors.Wrap(errors.ErrInvalidInput, fmt.Sprintf("schema keyword %q: %s", key, err))
	}
	return nil
}

// decodeProperties walks the properties object in token order.
func (s *Schema) decodeProperties(dec *json.Decoder) error {
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}

	for dec.More() {
		nameTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := nameTok.(string)
		if !ok {
			return fmt.Errorf("property name is not a string")
		}

		child := &Schema{}
		if err := dec.Decode(child); err != nil {
			return err
		}

		s.Properties = append(s.Properties, Property{Name: name, Schema: child})
	}

	_, err := dec.Token()
	return err
}

// expectDelim consumes one token and fails unless it is the given delimiter.
func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

// Parse parses JSON schema bytes. Returns errors.ErrInvalidInput on malformed
// input.
func Parse(data []byte) (*Schema, error) {
	s := &Schema{}
	if err := json.Unmarshal(data, s); err != nil {
		if errors.Is(err, errors.ErrInvalidInput) {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return s, nil
}
