package schema

import (
	"bytes"
	"encoding/json"
)

// Member is one key/value pair of an OrderedObject.
type Member struct {
	Name  string
	Value any
}

// OrderedObject is a JSON object that marshals its members in slice order,
// unlike a map. Example generation uses it so object examples keep the
// schema's declared property order.
type OrderedObject []Member

// Get returns the value for name and whether it is present.
func (o OrderedObject) Get(name string) (any, bool) {
	for _, m := range o {
		if m.Name == name {
			return m.Value, true
		}
	}
	return nil, false
}

// MarshalJSON writes the members as a JSON object in slice order.
func (o OrderedObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, m := range o {
		if i > 0 {
			buf.WriteByte(',')
		}

		name, err := json.Marshal(m.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')

		value, err := json.Marshal(m.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}
