package schema

import (
	"time"

	"github.com/rotacarga/freight-crm/internal/model"
)

// Control is the rendered description of one form input.  The renderer is
// stateless: it turns a schema plus the current record into an ordered list
// of controls, and every edit flows back as a (key, value) pair applied to
// the record by its owner.
type Control struct {
	Key         string          `json:"key"`
	Label       string          `json:"label"`
	Type        model.FieldType `json:"type"`
	Value       string          `json:"value"`
	Checked     bool            `json:"checked,omitempty"`
	Required    bool            `json:"required,omitempty"`
	Placeholder string          `json:"placeholder,omitempty"`
	Options     []string        `json:"options,omitempty"`
	Prefix      string          `json:"prefix,omitempty"`
	FullWidth   bool            `json:"fullWidth,omitempty"`
}

// currencyPrefix decorates currency inputs.
const currencyPrefix = "R$"

// Render produces one control per schema field, in schema order.  Controls
// lay out on a two-column grid; textarea, checkbox and file controls span
// both columns.  A schema with zero fields renders nothing.
func Render(s model.StageFormSchema, data map[string]model.FieldValue) []Control {
	if len(s.Fields) == 0 {
		return nil
	}
	out := make([]Control, 0, len(s.Fields))
	for _, f := range s.Fields {
		v := Resolve(f, data)
		c := Control{
			Key:         f.Key,
			Label:       f.Label,
			Type:        f.Type,
			Required:    f.Required,
			Placeholder: f.Placeholder,
		}
		switch f.Type {
		case model.FieldCheckbox:
			c.Checked = truthy(v)
			c.FullWidth = true
		case model.FieldTextarea:
			c.Value = v.Display()
			c.FullWidth = true
		case model.FieldFile:
			c.Value = v.Display()
			c.FullWidth = true
		case model.FieldCurrency:
			c.Value = v.Display()
			c.Prefix = currencyPrefix
		case model.FieldDate:
			c.Value = dateSeed(v)
		case model.FieldSelect:
			c.Value = v.Display()
			c.Options = f.Options
			if c.Placeholder == "" {
				c.Placeholder = "Selecione..."
			}
		default: // text, number
			c.Value = v.Display()
		}
		out = append(out, c)
	}
	return out
}

// Resolve reads a field's current value: the record value when one is
// present and not null, otherwise the field default, otherwise the empty
// string.  An empty string stored on the record is a real value and wins
// over the default; a stored null counts as absent.
func Resolve(f model.SchemaField, data map[string]model.FieldValue) model.FieldValue {
	if v, ok := data[f.Key]; ok && v.Kind != model.KindNull {
		return v
	}
	if f.DefaultValue != nil {
		return *f.DefaultValue
	}
	return model.String("")
}

// Apply writes one (key, value) change into a custom-field record, creating
// the map when needed, and returns the record.
func Apply(record map[string]model.FieldValue, key string, v model.FieldValue) map[string]model.FieldValue {
	if record == nil {
		record = make(map[string]model.FieldValue, 1)
	}
	record[key] = v
	return record
}

// truthy mirrors how a checkbox interprets whatever was stored: booleans
// directly, non-zero numbers and non-empty strings count as checked.
func truthy(v model.FieldValue) bool {
	switch v.Kind {
	case model.KindBool:
		return v.Bool
	case model.KindNumber:
		return v.Num != 0
	case model.KindDate:
		return !v.Date.IsZero()
	default:
		return v.Str != ""
	}
}

// dateSeed extracts the YYYY-MM-DD seed for a date picker from whatever is
// stored: a date value formats directly, a string is parsed as RFC 3339 or
// taken as an ISO date prefix, anything else seeds empty.
func dateSeed(v model.FieldValue) string {
	switch v.Kind {
	case model.KindDate:
		return v.Date.Format("2006-01-02")
	case model.KindString, model.KindFileRef:
		s := v.Str
		if s == "" {
			return ""
		}
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t.Format("2006-01-02")
		}
		if len(s) >= 10 {
			if _, err := time.Parse("2006-01-02", s[:10]); err == nil {
				return s[:10]
			}
		}
		return ""
	default:
		return ""
	}
}
