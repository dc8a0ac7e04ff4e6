package schema

import (
	"errors"
	"fmt"

	"github.com/rotacarga/freight-crm/internal/model"
)

// Editor errors surfaced to the admin screen.
var (
	ErrNoStage      = errors.New("no stage selected")
	ErrSaveInFlight = errors.New("save already in flight")
	ErrNotDirty     = errors.New("schema unchanged")
	ErrNoDraft      = errors.New("no field being edited")
)

// Editor maintains the working copy of one stage's form schema for the
// admin screen.  It owns the draft field being created or edited, tracks
// key auto-derivation, and computes the dirty flag against the last value
// fetched from the schema store so saving is only offered when something
// actually changed.
type Editor struct {
	boardID string
	stageID string

	working model.StageFormSchema
	fetched *model.StageFormSchema // last settled fetch for stageID, nil when none persisted

	draft       model.SchemaField
	optionsText string // comma-delimited select options, split on field save
	editingKey  string // original key in edit mode, "" in create mode
	hasDraft    bool
	creating    bool
	keyTouched  bool // user edited the key manually; stops auto-derivation

	saving bool
}

// NewEditor returns an editor with nothing selected.
func NewEditor() *Editor { return &Editor{} }

// SelectBoard switches the board selection.  Per the admin screen contract
// this resets the selected stage and the working schema to empty.
func (e *Editor) SelectBoard(boardID string) {
	e.boardID = boardID
	e.stageID = ""
	e.working = model.StageFormSchema{}
	e.fetched = nil
	e.hasDraft = false
	e.saving = false
}

// SelectStage switches the stage selection and clears the working schema
// until a fetch for that stage settles.
func (e *Editor) SelectStage(stageID string) {
	e.stageID = stageID
	e.working = model.StageFormSchema{}
	e.fetched = nil
	e.hasDraft = false
}

// ApplyFetched installs the result of a schema fetch.  The result is keyed
// by the stage it was requested for: a response for a stage that is no
// longer selected is discarded, so a superseded fetch can never clobber the
// current selection.
func (e *Editor) ApplyFetched(stageID string, s *model.StageFormSchema) {
	if stageID != e.stageID {
		return
	}
	e.fetched = s
	if s != nil {
		e.working = cloneSchema(*s)
	} else {
		e.working = model.StageFormSchema{}
	}
}

// Board and Stage return the current selection.
func (e *Editor) Board() string { return e.boardID }
func (e *Editor) Stage() string { return e.stageID }

// Working returns the current working schema.
func (e *Editor) Working() model.StageFormSchema { return e.working }

// AddField opens the draft in create mode with a blank short-text field.
func (e *Editor) AddField() {
	e.draft = model.SchemaField{Type: model.FieldText}
	e.optionsText = ""
	e.editingKey = ""
	e.hasDraft = true
	e.creating = true
	e.keyTouched = false
}

// EditField opens the draft in edit mode pre-populated from the field with
// the given key.
func (e *Editor) EditField(key string) error {
	for _, f := range e.working.Fields {
		if f.Key == key {
			e.draft = cloneField(f)
			e.optionsText = JoinOptions(f.Options)
			e.editingKey = key
			e.hasDraft = true
			e.creating = false
			e.keyTouched = false
			return nil
		}
	}
	return fmt.Errorf("field %q not found", key)
}

// SetLabel updates the draft label.  While creating, and until the key has
// been edited by hand, the key is re-derived from the label.
func (e *Editor) SetLabel(label string) {
	if !e.hasDraft {
		return
	}
	e.draft.Label = label
	if e.creating && !e.keyTouched {
		e.draft.Key = DeriveKey(label)
	}
}

// SetKey sets the draft key by hand, which stops auto-derivation.  Keys are
// immutable in edit mode: renaming a persisted key would orphan every value
// stored under it.
func (e *Editor) SetKey(key string) error {
	if !e.hasDraft {
		return ErrNoDraft
	}
	if !e.creating {
		return ErrKeyImmutable
	}
	e.draft.Key = key
	e.keyTouched = true
	return nil
}

// SetType, SetRequired, SetPlaceholder and SetOptionsText update the
// remaining draft attributes.
func (e *Editor) SetType(t model.FieldType)    { e.draft.Type = t }
func (e *Editor) SetRequired(r bool)           { e.draft.Required = r }
func (e *Editor) SetPlaceholder(p string)      { e.draft.Placeholder = p }
func (e *Editor) SetOptionsText(s string)      { e.optionsText = s }
func (e *Editor) SetDefault(v *model.FieldValue) { e.draft.DefaultValue = v }

// Draft returns the field currently being edited.
func (e *Editor) Draft() model.SchemaField { return e.draft }

// SaveField commits the draft into the working schema.  In edit mode the
// field matching the original key is replaced.  In create mode a key that
// already exists is rejected and the schema keeps its prior state.
func (e *Editor) SaveField() error {
	if !e.hasDraft {
		return ErrNoDraft
	}
	if e.draft.Label == "" || e.draft.Key == "" {
		return errors.New("label and key are required")
	}
	f := cloneField(e.draft)
	if f.Type == model.FieldSelect {
		f.Options = ParseOptions(e.optionsText)
	}
	if e.creating {
		for _, existing := range e.working.Fields {
			if existing.Key == f.Key {
				return fmt.Errorf("field %q: %w", f.Key, ErrDuplicateKey)
			}
		}
		e.working.Fields = append(e.working.Fields, f)
	} else {
		for i, existing := range e.working.Fields {
			if existing.Key == e.editingKey {
				e.working.Fields[i] = f
				break
			}
		}
	}
	e.hasDraft = false
	return nil
}

// DeleteField removes the field with the given key from the working schema.
func (e *Editor) DeleteField(key string) {
	fields := e.working.Fields[:0]
	for _, f := range e.working.Fields {
		if f.Key != key {
			fields = append(fields, f)
		}
	}
	e.working.Fields = fields
}

// Dirty reports whether the working schema differs structurally from the
// last fetched value.  A stage with nothing persisted compares against the
// empty schema.
func (e *Editor) Dirty() bool {
	ref := model.StageFormSchema{}
	if e.fetched != nil {
		ref = *e.fetched
	}
	return !Equal(e.working, ref)
}

// CanSave reports whether persisting is currently allowed: a stage must be
// selected, no save may be in flight, and the working copy must be dirty.
func (e *Editor) CanSave() bool {
	return e.stageID != "" && !e.saving && e.Dirty()
}

// BeginSave validates the working schema and marks a save in flight.  The
// caller performs the actual upsert and reports back through EndSave.
func (e *Editor) BeginSave() (model.StageFormSchema, error) {
	if e.stageID == "" {
		return model.StageFormSchema{}, ErrNoStage
	}
	if e.saving {
		return model.StageFormSchema{}, ErrSaveInFlight
	}
	if !e.Dirty() {
		return model.StageFormSchema{}, ErrNotDirty
	}
	if err := Validate(e.working); err != nil {
		return model.StageFormSchema{}, err
	}
	e.saving = true
	return cloneSchema(e.working), nil
}

// EndSave settles an in-flight save.  On success the fetched reference
// catches up with the working copy; on failure the working copy is kept
// untouched so nothing the user typed is lost.
func (e *Editor) EndSave(err error) {
	e.saving = false
	if err == nil {
		s := cloneSchema(e.working)
		e.fetched = &s
	}
}

func cloneField(f model.SchemaField) model.SchemaField {
	out := f
	if f.Options != nil {
		out.Options = append([]string(nil), f.Options...)
	}
	if f.DefaultValue != nil {
		v := *f.DefaultValue
		out.DefaultValue = &v
	}
	return out
}

func cloneSchema(s model.StageFormSchema) model.StageFormSchema {
	out := model.StageFormSchema{}
	if s.Fields != nil {
		out.Fields = make([]model.SchemaField, len(s.Fields))
		for i, f := range s.Fields {
			out.Fields[i] = cloneField(f)
		}
	}
	return out
}
