package schema

import (
	"errors"
	"fmt"

	"github.com/rotacarga/freight-crm/internal/model"
)

// ErrDuplicateKey is returned when a field key already exists within the
// schema being edited or validated.  Handlers translate it into HTTP 409.
var ErrDuplicateKey = errors.New("duplicate field key")

// ErrKeyImmutable is returned when an attempt is made to change the key of
// a field that already exists, which would orphan stored record values.
var ErrKeyImmutable = errors.New("field key is immutable")

// Validate checks a whole schema before it is persisted: every field needs a
// non-empty key and label, a known type, and keys must be unique within the
// schema.
func Validate(s model.StageFormSchema) error {
	seen := make(map[string]bool, len(s.Fields))
	for _, f := range s.Fields {
		if f.Key == "" {
			return fmt.Errorf("field %q: empty key", f.Label)
		}
		if f.Label == "" {
			return fmt.Errorf("field %q: empty label", f.Key)
		}
		if !model.ValidFieldType(f.Type) {
			return fmt.Errorf("field %q: unknown type %q", f.Key, f.Type)
		}
		if seen[f.Key] {
			return fmt.Errorf("field %q: %w", f.Key, ErrDuplicateKey)
		}
		seen[f.Key] = true
	}
	return nil
}
