package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/keyvault/internal/errors"
)

func TestParse(t *testing.T) {
	t.Run("preserves declared property order", func(t *testing.T) {
		s, err := Parse([]byte(`{
			"type": "object",
			"properties": {
				"zebra": {"type": "string"},
				"apple": {"type": "integer"},
				"mango": {"type": "boolean"}
			}
		}`))
		require.NoError(t, err)

		names := make([]string, 0, len(s.Properties))
		for _, p := range s.Properties {
			names = append(names, p.Name)
		}
		assert.Equal(t, []string{"zebra", "apple", "mango"}, names)
	})

	t.Run("parses nested schemas", func(t *testing.T) {
		s, err := Parse([]byte(`{
			"type": "object",
			"properties": {
				"tags": {"type": "array", "items": {"type": "string"}},
				"owner": {
					"type": "object",
					"properties": {"email": {"type": "string", "format": "email"}}
				}
			}
		}`))
		require.NoError(t, err)

		require.Len(t, s.Properties, 2)
		tags := s.Properties[0].Schema
		assert.Equal(t, "array", tags.Type)
		require.NotNil(t, tags.Items)
		assert.Equal(t, "string", tags.Items.Type)

		owner := s.Properties[1].Schema
		require.Len(t, owner.Properties, 1)
		assert.Equal(t, "email", owner.Properties[0].Schema.Format)
	})

	t.Run("parses example, enum and ref", func(t *testing.T) {
		s, err := Parse([]byte(`{
			"type": "string",
			"enum": ["x", "y"],
			"example": "chosen",
			"$ref": "#/components/schemas/ApiKey"
		}`))
		require.NoError(t, err)

		assert.Equal(t, "chosen", s.Example)
		assert.Equal(t, []any{"x", "y"}, s.Enum)
		assert.Equal(t, "#/components/schemas/ApiKey", s.Ref)
	})

	t.Run("skips unknown keywords", func(t *testing.T) {
		s, err := Parse([]byte(`{
			"type": "string",
			"description": "ignored",
			"minLength": 3,
			"x-vendor": {"nested": ["junk"]}
		}`))
		require.NoError(t, err)
		assert.Equal(t, "string", s.Type)
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		for _, input := range []string{
			``,
			`[]`,
			`"string"`,
			`{"type": `,
			`{"properties": []}`,
		} {
			_, err := Parse([]byte(input))
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput, "input: %s", input)
		}
	})
}

func TestToExample(t *testing.T) {
	t.Run("object recurses over properties in order", func(t *testing.T) {
		s, err := Parse([]byte(`{
			"type": "object",
			"properties": {
				"a": {"type": "string"},
				"b": {"type": "integer"}
			}
		}`))
		require.NoError(t, err)

		example := ToExample(s)
		obj, ok := example.(OrderedObject)
		require.True(t, ok)

		assert.Equal(t, OrderedObject{
			{Name: "a", Value: "string"},
			{Name: "b", Value: 0},
		}, obj)
	})

	t.Run("explicit example wins", func(t *testing.T) {
		s := &Schema{Type: "string", Example: "sk-live-xyz", Enum: []any{"x"}}
		assert.Equal(t, "sk-live-xyz", ToExample(s))
	})

	t.Run("ref produces a placeholder marker", func(t *testing.T) {
		s := &Schema{Ref: "#/components/schemas/ApiKey"}
		assert.Equal(t, "<#/components/schemas/ApiKey>", ToExample(s))
	})

	t.Run("enum picks the first value", func(t *testing.T) {
		s := &Schema{Type: "string", Enum: []any{"x", "y"}}
		assert.Equal(t, "x", ToExample(s))
	})

	t.Run("scalar defaults", func(t *testing.T) {
		assert.Equal(t, "string", ToExample(&Schema{Type: "string"}))
		assert.Equal(t, 0, ToExample(&Schema{Type: "integer"}))
		assert.Equal(t, 0, ToExample(&Schema{Type: "number"}))
		assert.Equal(t, true, ToExample(&Schema{Type: "boolean"}))
	})

	t.Run("string formats", func(t *testing.T) {
		assert.Equal(t, "2024-01-01", ToExample(&Schema{Type: "string", Format: "date"}))
		assert.Equal(t, "2024-01-01T00:00:00Z", ToExample(&Schema{Type: "string", Format: "date-time"}))
		assert.Equal(t, "user@example.com", ToExample(&Schema{Type: "string", Format: "email"}))
		assert.Equal(t, "00000000-0000-0000-0000-000000000000", ToExample(&Schema{Type: "string", Format: "uuid"}))
	})

	t.Run("array wraps a single item example", func(t *testing.T) {
		s := &Schema{Type: "array", Items: &Schema{Type: "integer"}}
		assert.Equal(t, []any{0}, ToExample(s))
	})

	t.Run("unknown or missing type yields nil", func(t *testing.T) {
		assert.Nil(t, ToExample(&Schema{}))
		assert.Nil(t, ToExample(&Schema{Type: "quantum"}))
		assert.Nil(t, ToExample(nil))
	})

	t.Run("deep nesting terminates at the depth guard", func(t *testing.T) {
		root := &Schema{Type: "object"}
		current := root
		for range MaxDepth + 10 {
			child := &Schema{Type: "object"}
			current.Properties = []Property{{Name: "next", Schema: child}}
			current = child
		}

		example := ToExample(root)

		depth := 0
		for {
			obj, ok := example.(OrderedObject)
			if !ok {
				break
			}
			value, found := obj.Get("next")
			require.True(t, found)
			example = value
			depth++
		}

		assert.Equal(t, DepthPlaceholder, example)
		assert.LessOrEqual(t, depth, MaxDepth)
	})

	t.Run("self-referential schema terminates", func(t *testing.T) {
		s := &Schema{Type: "object"}
		s.Properties = []Property{{Name: "self", Schema: s}}

		assert.NotPanics(t, func() {
			ToExample(s)
		})
	})
}

func TestOrderedObject_MarshalJSON(t *testing.T) {
	t.Run("marshals members in order", func(t *testing.T) {
		obj := OrderedObject{
			{Name: "zebra", Value: "string"},
			{Name: "apple", Value: 0},
			{Name: "mango", Value: true},
		}

		data, err := json.Marshal(obj)
		require.NoError(t, err)
		assert.Equal(t, `{"zebra":"string","apple":0,"mango":true}`, string(data))
	})

	t.Run("marshals nested ordered objects", func(t *testing.T) {
		obj := OrderedObject{
			{Name: "outer", Value: OrderedObject{{Name: "inner", Value: "string"}}},
		}

		data, err := json.Marshal(obj)
		require.NoError(t, err)
		assert.Equal(t, `{"outer":{"inner":"string"}}`, string(data))
	})

	t.Run("marshals the empty object", func(t *testing.T) {
		data, err := json.Marshal(OrderedObject{})
		require.NoError(t, err)
		assert.Equal(t, `{}`, string(data))
	})
}
