package schema

import (
	"errors"
	"testing"

	"github.com/rotacarga/freight-crm/internal/model"
)

func fetchedSchema(fields ...model.SchemaField) *model.StageFormSchema {
	return &model.StageFormSchema{Fields: fields}
}

func selectStage(t *testing.T, e *Editor, s *model.StageFormSchema) {
	t.Helper()
	e.SelectBoard("board-1")
	e.SelectStage("stage-1")
	e.ApplyFetched("stage-1", s)
}

func TestEditorCreateFieldDerivesKey(t *testing.T) {
	e := NewEditor()
	selectStage(t, e, nil)

	e.AddField()
	e.SetLabel("Número do Contrato")
	if got := e.Draft().Key; got != "numero_do_contrato" {
		t.Errorf("derived key = %q", got)
	}

	// typing continues to re-derive until the key is touched by hand
	e.SetLabel("Número")
	if got := e.Draft().Key; got != "numero" {
		t.Errorf("re-derived key = %q", got)
	}
	if err := e.SetKey("contrato"); err != nil {
		t.Fatalf("SetKey: %v", err)
	}
	e.SetLabel("Número do Contrato")
	if got := e.Draft().Key; got != "contrato" {
		t.Errorf("manual key overwritten by derivation: %q", got)
	}

	if err := e.SaveField(); err != nil {
		t.Fatalf("SaveField: %v", err)
	}
	if n := len(e.Working().Fields); n != 1 {
		t.Fatalf("working schema has %d fields, want 1", n)
	}
}

func TestEditorDuplicateKeyRejected(t *testing.T) {
	e := NewEditor()
	selectStage(t, e, fetchedSchema(model.SchemaField{Key: "peso", Label: "Peso", Type: model.FieldNumber}))

	e.AddField()
	e.SetLabel("Peso")
	if err := e.SaveField(); !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("SaveField with duplicate key: %v, want ErrDuplicateKey", err)
	}
	// the rejected save leaves the schema untouched
	if n := len(e.Working().Fields); n != 1 {
		t.Errorf("working schema has %d fields after rejected save, want 1", n)
	}
}

func TestEditorKeyImmutableInEditMode(t *testing.T) {
	e := NewEditor()
	selectStage(t, e, fetchedSchema(model.SchemaField{Key: "peso", Label: "Peso", Type: model.FieldNumber}))

	if err := e.EditField("peso"); err != nil {
		t.Fatalf("EditField: %v", err)
	}
	if err := e.SetKey("peso_kg"); !errors.Is(err, ErrKeyImmutable) {
		t.Fatalf("SetKey in edit mode: %v, want ErrKeyImmutable", err)
	}

	// everything else is editable; the replacement lands on the original key
	e.SetLabel("Peso (kg)")
	e.SetRequired(true)
	if err := e.SaveField(); err != nil {
		t.Fatalf("SaveField: %v", err)
	}
	f := e.Working().Fields[0]
	if f.Key != "peso" || f.Label != "Peso (kg)" || !f.Required {
		t.Errorf("edited field = %+v", f)
	}
}

func TestEditorSelectOptionsParsedOnSave(t *testing.T) {
	e := NewEditor()
	selectStage(t, e, nil)

	e.AddField()
	e.SetLabel("Tipo de Carga")
	e.SetType(model.FieldSelect)
	e.SetOptionsText("Lotação, Fracionado ,Expressa,")
	if err := e.SaveField(); err != nil {
		t.Fatalf("SaveField: %v", err)
	}
	got := e.Working().Fields[0].Options
	want := []string{"Lotação", "Fracionado", "Expressa"}
	if len(got) != len(want) {
		t.Fatalf("options = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("option[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestEditorDirtyIsStructural(t *testing.T) {
	base := model.SchemaField{Key: "peso", Label: "Peso", Type: model.FieldNumber}
	e := NewEditor()
	selectStage(t, e, fetchedSchema(base))

	if e.Dirty() {
		t.Error("freshly fetched schema reported dirty")
	}

	// editing a field and saving back the identical content stays clean
	if err := e.EditField("peso"); err != nil {
		t.Fatalf("EditField: %v", err)
	}
	if err := e.SaveField(); err != nil {
		t.Fatalf("SaveField: %v", err)
	}
	if e.Dirty() {
		t.Error("identical content reported dirty")
	}

	e.DeleteField("peso")
	if !e.Dirty() {
		t.Error("deleted field not reported dirty")
	}
}

func TestEditorBoardSwitchResetsSelection(t *testing.T) {
	e := NewEditor()
	selectStage(t, e, fetchedSchema(model.SchemaField{Key: "peso", Label: "Peso", Type: model.FieldNumber}))

	e.SelectBoard("board-2")
	if e.Stage() != "" {
		t.Errorf("stage survived board switch: %q", e.Stage())
	}
	if n := len(e.Working().Fields); n != 0 {
		t.Errorf("working schema survived board switch: %d fields", n)
	}
}

func TestEditorStaleFetchDiscarded(t *testing.T) {
	e := NewEditor()
	e.SelectBoard("board-1")
	e.SelectStage("stage-1")
	e.SelectStage("stage-2")

	// the response for stage-1 arrives after stage-2 was selected
	e.ApplyFetched("stage-1", fetchedSchema(model.SchemaField{Key: "peso", Label: "Peso", Type: model.FieldNumber}))
	if n := len(e.Working().Fields); n != 0 {
		t.Errorf("stale fetch installed %d fields", n)
	}

	e.ApplyFetched("stage-2", fetchedSchema(model.SchemaField{Key: "rota", Label: "Rota", Type: model.FieldText}))
	if n := len(e.Working().Fields); n != 1 {
		t.Errorf("current fetch installed %d fields, want 1", n)
	}
}

func TestEditorSaveGating(t *testing.T) {
	e := NewEditor()

	if _, err := e.BeginSave(); !errors.Is(err, ErrNoStage) {
		t.Errorf("BeginSave without stage: %v, want ErrNoStage", err)
	}

	selectStage(t, e, nil)
	if _, err := e.BeginSave(); !errors.Is(err, ErrNotDirty) {
		t.Errorf("BeginSave clean: %v, want ErrNotDirty", err)
	}

	e.AddField()
	e.SetLabel("Peso")
	if err := e.SaveField(); err != nil {
		t.Fatalf("SaveField: %v", err)
	}
	if !e.CanSave() {
		t.Fatal("CanSave false with a dirty schema")
	}

	snap, err := e.BeginSave()
	if err != nil {
		t.Fatalf("BeginSave: %v", err)
	}
	if len(snap.Fields) != 1 {
		t.Fatalf("snapshot has %d fields", len(snap.Fields))
	}
	if _, err := e.BeginSave(); !errors.Is(err, ErrSaveInFlight) {
		t.Errorf("second BeginSave: %v, want ErrSaveInFlight", err)
	}

	// failed save keeps the working copy dirty so nothing typed is lost
	e.EndSave(errors.New("boom"))
	if !e.Dirty() {
		t.Error("failed save marked schema clean")
	}

	// successful save catches the reference up
	if _, err := e.BeginSave(); err != nil {
		t.Fatalf("BeginSave after failure: %v", err)
	}
	e.EndSave(nil)
	if e.Dirty() {
		t.Error("successful save left schema dirty")
	}
}
