// Package form derives and maintains prediction form state from a fetched
// field schema.
package form

import (
	"strconv"

	"github.com/churnlabs/churnboard/internal/api"
)

// State holds the current value for every schema field. It is always built
// from a complete schema, so its keys and the field list stay in lock-step;
// a schema reload replaces the whole State rather than mutating it.
type State struct {
	fields []api.SchemaField
	values map[string]string
}

// New derives the initial state for a schema: numeric fields default to "0",
// categorical fields to their first allowed value (or empty when the schema
// lists none).
func New(fields []api.SchemaField) *State {
	values := make(map[string]string, len(fields))
	for _, f := range fields {
		values[f.Name] = defaultValue(f)
	}
	return &State{fields: fields, values: values}
}

func defaultValue(f api.SchemaField) string {
	if f.IsCategorical() {
		if len(f.Values) > 0 {
			return f.Values[0]
		}
		return ""
	}
	return "0"
}

// Fields returns the schema fields the state was built from, in schema order.
func (s *State) Fields() []api.SchemaField {
	return s.fields
}

// Len returns the number of fields.
func (s *State) Len() int {
	return len(s.fields)
}

// Get returns the raw value for a field.
func (s *State) Get(name string) (string, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Set replaces the value of exactly one field, leaving all others untouched.
// Unknown names are rejected so the state never drifts from its schema.
// Numeric fields may hold empty text while the user is editing; the value is
// stored as-is, never coerced.
func (s *State) Set(name, value string) bool {
	if _, ok := s.values[name]; !ok {
		return false
	}
	s.values[name] = value
	return true
}

// Payload serializes the state as the flat JSON object posted to the
// prediction endpoint: numeric fields as numbers (empty or unparsable text
// becomes 0), categorical fields as strings.
func (s *State) Payload() map[string]any {
	record := make(map[string]any, len(s.fields))
	for _, f := range s.fields {
		raw := s.values[f.Name]
		if f.IsCategorical() {
			record[f.Name] = raw
			continue
		}
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			n = 0
		}
		record[f.Name] = n
	}
	return record
}
