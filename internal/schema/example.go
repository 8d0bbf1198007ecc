package schema

// MaxDepth bounds the structural recursion of ToExample. Self-referential or
// pathologically nested schemas terminate with DepthPlaceholder instead of
// recursing forever.
const MaxDepth = 32

// DepthPlaceholder is returned for subtrees beyond MaxDepth.
const DepthPlaceholder = "..."

// Representative values for typed schemas without an explicit example.
const (
	sampleString   = "string"
	sampleDate     = "2024-01-01"
	sampleDateTime = "2024-01-01T00:00:00Z"
	sampleEmail    = "user@example.com"
	sampleUUID     = "00000000-0000-0000-0000-000000000000"
)

// ToExample produces a representative example value for the schema.
//
// Resolution order per node: explicit example, $ref placeholder, enum first
// value, then a type-driven default. Objects recurse over their properties in
// declared order and come back as OrderedObject; arrays produce a single
// element from the item schema. Unknown or missing types yield nil.
func ToExample(s *Schema) any {
	return toExample(s, 0)
}

func toExample(s *Schema, depth int) any {
	if s == nil {
		return nil
	}
	if depth >= MaxDepth {
		return DepthPlaceholder
	}

	if s.Example != nil {
		return s.Example
	}
	if s.Ref != "" {
		return "<" + s.Ref + ">"
	}
	if len(s.Enum) > 0 {
		return s.Enum[0]
	}

	switch s.Type {
	case "object":
		obj := make(OrderedObject, 0, len(s.Properties))
		for _, p := range s.Properties {
			obj = append(obj, Member{Name: p.Name, Value: toExample(p.Schema, depth+1)})
		}
		return obj
	case "array":
		return []any{toExample(s.Items, depth+1)}
	case "string":
		return stringExample(s.Format)
	case "integer", "number":
		return 0
	case "boolean":
		return true
	}

	return nil
}

// stringExample picks a format-aware sample string.
func stringExample(format string) any {
	switch format {
	case "date":
		return sampleDate
	case "date-time":
		return sampleDateTime
	case "email":
		return sampleEmail
	case "uuid":
		return sampleUUID
	}
	return sampleString
}
