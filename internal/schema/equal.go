package schema

import "github.com/rotacarga/freight-crm/internal/model"

// Equal compares two schemas field by field.  It is deliberately structural
// rather than a comparison of serialized bytes, so key ordering inside a
// field can never produce a false mismatch.
func Equal(a, b model.StageFormSchema) bool {
	if len(a.Fields) != len(b.Fields) {
		return false
	}
	for i := range a.Fields {
		if !FieldEqual(a.Fields[i], b.Fields[i]) {
			return false
		}
	}
	return true
}

// FieldEqual compares every attribute of two field definitions.
func FieldEqual(a, b model.SchemaField) bool {
	if a.Key != b.Key || a.Label != b.Label || a.Type != b.Type ||
		a.Required != b.Required || a.Placeholder != b.Placeholder {
		return false
	}
	if len(a.Options) != len(b.Options) {
		return false
	}
	for i := range a.Options {
		if a.Options[i] != b.Options[i] {
			return false
		}
	}
	if (a.DefaultValue == nil) != (b.DefaultValue == nil) {
		return false
	}
	if a.DefaultValue != nil && !a.DefaultValue.Equal(*b.DefaultValue) {
		return false
	}
	return true
}
