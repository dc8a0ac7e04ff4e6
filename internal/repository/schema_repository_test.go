package repository

import (
	"strings"
	"testing"
	"time"

	"github.com/rotacarga/freight-crm/internal/model"
)

func TestSchemaDocRoundTrip(t *testing.T) {
	def := model.Number(1)
	in := model.StageFormSchema{Fields: []model.SchemaField{
		{Key: "peso", Label: "Peso (kg)", Type: model.FieldNumber, Required: true, DefaultValue: &def},
		{Key: "tipo", Label: "Tipo de Carga", Type: model.FieldSelect, Options: []string{"Lotação", "Fracionado"}},
		{Key: "coleta", Label: "Data de Coleta", Type: model.FieldDate, Placeholder: "Quando?"},
	}}

	raw, err := EncodeSchemaDoc(in)
	if err != nil {
		t.Fatalf("EncodeSchemaDoc: %v", err)
	}
	out, err := DecodeSchemaDoc(raw)
	if err != nil {
		t.Fatalf("DecodeSchemaDoc: %v", err)
	}
	if out == nil || len(out.Fields) != 3 {
		t.Fatalf("decoded schema = %+v", out)
	}
	for i := range in.Fields {
		a, b := in.Fields[i], out.Fields[i]
		if a.Key != b.Key || a.Label != b.Label || a.Type != b.Type ||
			a.Required != b.Required || a.Placeholder != b.Placeholder {
			t.Errorf("field %d changed: %+v -> %+v", i, a, b)
		}
	}
	if out.Fields[0].DefaultValue == nil || !out.Fields[0].DefaultValue.Equal(def) {
		t.Errorf("default value = %+v", out.Fields[0].DefaultValue)
	}
	if got := out.Fields[1].Options; len(got) != 2 || got[0] != "Lotação" {
		t.Errorf("options = %v", got)
	}
}

func TestEncodeSchemaDocEmpty(t *testing.T) {
	raw, err := EncodeSchemaDoc(model.StageFormSchema{})
	if err != nil {
		t.Fatalf("EncodeSchemaDoc: %v", err)
	}
	// an empty schema persists as an empty list, never as null
	if !strings.Contains(string(raw), `"fields":[]`) {
		t.Errorf("empty schema encoded as %s", raw)
	}
}

func TestSchemaDocDateDefaultRoundTrip(t *testing.T) {
	def := model.Date(time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC))
	in := model.StageFormSchema{Fields: []model.SchemaField{
		{Key: "coleta", Label: "Coleta", Type: model.FieldDate, DefaultValue: &def},
	}}
	raw, err := EncodeSchemaDoc(in)
	if err != nil {
		t.Fatalf("EncodeSchemaDoc: %v", err)
	}
	out, err := DecodeSchemaDoc(raw)
	if err != nil {
		t.Fatalf("DecodeSchemaDoc: %v", err)
	}
	got := out.Fields[0].DefaultValue
	if got == nil || got.Kind != model.KindDate || !got.Date.Equal(def.Date) {
		t.Errorf("date default = %+v, want %+v", got, def)
	}
}

func TestDecodeSchemaDocRejectsGarbage(t *testing.T) {
	if _, err := DecodeSchemaDoc([]byte("{not json")); err == nil {
		t.Error("DecodeSchemaDoc accepted malformed input")
	}
}
