package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// FieldType enumerates the control types a stage form field can take.
type FieldType string

const (
	FieldText     FieldType = "text"     // short single-line text
	FieldTextarea FieldType = "textarea" // long multi-line text
	FieldNumber   FieldType = "number"   // plain numeric input
	FieldCurrency FieldType = "currency" // numeric input with currency prefix
	FieldDate     FieldType = "date"     // date picker
	FieldCheckbox FieldType = "checkbox" // boolean toggle
	FieldSelect   FieldType = "select"   // single choice from Options
	FieldFile     FieldType = "file"     // file picker, stores the file name only
)

// ValidFieldType reports whether t is a member of the fixed type enumeration.
func ValidFieldType(t FieldType) bool {
	switch t {
	case FieldText, FieldTextarea, FieldNumber, FieldCurrency,
		FieldDate, FieldCheckbox, FieldSelect, FieldFile:
		return true
	}
	return false
}

// SchemaField defines one custom form field attached to a pipeline stage.
// Key is the stable identifier used as the attribute name on deal records;
// it is unique within its schema and immutable once the field has been
// persisted, so stored data is never orphaned by a rename.
//
// Fields:
//  Key          – record attribute name, unique within the schema.
//  Label        – display text shown next to the control.
//  Type         – one of the FieldType enumeration.
//  Required     – visual marker only; enforcement is the caller's concern.
//  Placeholder  – optional hint text.
//  Options      – selectable strings, meaningful only for select fields.
//  DefaultValue – optional value used when a record has none.
type SchemaField struct {
	Key          string      `json:"key"`
	Label        string      `json:"label"`
	Type         FieldType   `json:"type"`
	Required     bool        `json:"required"`
	Placeholder  string      `json:"placeholder,omitempty"`
	Options      []string    `json:"options,omitempty"`
	DefaultValue *FieldValue `json:"defaultValue,omitempty"`
}

// StageFormSchema is the ordered field list owned by exactly one stage.  It
// is persisted as a single JSON document and replaced as a whole on save.
type StageFormSchema struct {
	Fields []SchemaField `json:"fields"`
}

// FieldKind discriminates the closed set of value shapes a custom field can
// hold on a deal record.
type FieldKind uint8

const (
	KindString FieldKind = iota
	KindNumber
	KindBool
	KindDate
	KindFileRef
	KindNull // explicit JSON null on a record; renders as if absent
)

// FieldValue is a small closed variant for custom field values: string,
// number, boolean, date, file reference or explicit null.  The zero value
// is the empty string, matching the renderer's fallback when neither record
// value nor default exists.  A null value is distinct from the empty
// string: it counts as absent when a field resolves, while "" is a real
// value that wins over the default.
type FieldValue struct {
	Kind FieldKind
	Str  string    // KindString and KindFileRef (stored file name)
	Num  float64   // KindNumber
	Bool bool      // KindBool
	Date time.Time // KindDate
}

// String, Number, Bool, Date, FileRef and Null construct values of each kind.
func String(s string) FieldValue    { return FieldValue{Kind: KindString, Str: s} }
func Number(n float64) FieldValue   { return FieldValue{Kind: KindNumber, Num: n} }
func Bool(b bool) FieldValue        { return FieldValue{Kind: KindBool, Bool: b} }
func Date(t time.Time) FieldValue   { return FieldValue{Kind: KindDate, Date: t} }
func FileRef(name string) FieldValue { return FieldValue{Kind: KindFileRef, Str: name} }
func Null() FieldValue               { return FieldValue{Kind: KindNull} }

// IsZero reports whether the value is the empty-string zero value.
func (v FieldValue) IsZero() bool {
	return v.Kind == KindString && v.Str == ""
}

// Display renders the value as the string a card or form would show.
func (v FieldValue) Display() string {
	switch v.Kind {
	case KindNumber:
		return trimFloat(v.Num)
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindDate:
		return v.Date.Format("2006-01-02")
	default:
		return v.Str
	}
}

func trimFloat(f float64) string {
	s := fmt.Sprintf("%g", f)
	return s
}

// MarshalJSON writes the bare JSON value, not the variant envelope, so the
// persisted document shape matches `{key: value}` records.
func (v FieldValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNumber:
		return json.Marshal(v.Num)
	case KindBool:
		return json.Marshal(v.Bool)
	case KindDate:
		return json.Marshal(v.Date.Format("2006-01-02"))
	case KindNull:
		return []byte("null"), nil
	default:
		return json.Marshal(v.Str)
	}
}

// UnmarshalJSON infers the kind from the JSON shape.  Strings matching an
// ISO date are decoded as dates; file references cannot be told apart from
// plain strings on the wire and come back as strings, which is harmless
// because both carry only a name.
func (v *FieldValue) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch t := raw.(type) {
	case nil:
		*v = Null()
	case bool:
		*v = Bool(t)
	case float64:
		*v = Number(t)
	case string:
		if d, err := time.Parse("2006-01-02", t); err == nil {
			*v = Date(d)
		} else {
			*v = String(t)
		}
	default:
		return fmt.Errorf("unsupported field value %T", raw)
	}
	return nil
}

// Equal compares two field values structurally.
func (v FieldValue) Equal(o FieldValue) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindNumber:
		return v.Num == o.Num
	case KindBool:
		return v.Bool == o.Bool
	case KindDate:
		return v.Date.Equal(o.Date)
	default:
		return v.Str == o.Str
	}
}
