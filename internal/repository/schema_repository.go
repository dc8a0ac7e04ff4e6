package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rotacarga/freight-crm/internal/model"
)

// SchemaRepo persists stage form schemas: one JSON document per stage id,
// shaped {fields: [...]}, replaced as a whole on every save.
type SchemaRepo struct {
	db *sql.DB
}

// NewSchemaRepo constructs a SchemaRepo with the given DB handle.
func NewSchemaRepo(db *sql.DB) *SchemaRepo {
	return &SchemaRepo{db: db}
}

// GetByStage returns the schema document for a stage, or nil when the stage
// has none persisted.  Absence is not an error: a stage simply starts with
// an empty form.
func (r *SchemaRepo) GetByStage(ctx context.Context, stageID string) (*model.StageFormSchema, error) {
	const q = `SELECT doc FROM stage_form_schemas WHERE stage_id = ?`
	var raw []byte
	if err := r.db.QueryRowContext(ctx, q, stageID).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return DecodeSchemaDoc(raw)
}

// Upsert replaces the schema document for a stage, inserting the row when
// none exists.  The write is keyed by stage id so each stage owns exactly
// one document.
func (r *SchemaRepo) Upsert(ctx context.Context, stageID, orgID string, s model.StageFormSchema) error {
	raw, err := EncodeSchemaDoc(s)
	if err != nil {
		return err
	}
	const q = `INSERT INTO stage_form_schemas (stage_id, organization_id, doc)
	           VALUES (?, ?, ?)
	           ON DUPLICATE KEY UPDATE doc = VALUES(doc), updated_at = CURRENT_TIMESTAMP`
	_, err = r.db.ExecContext(ctx, q, stageID, orgID, raw)
	return err
}

// EncodeSchemaDoc marshals the schema into the persisted document shape.
func EncodeSchemaDoc(s model.StageFormSchema) ([]byte, error) {
	if s.Fields == nil {
		s.Fields = []model.SchemaField{}
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode schema: %w", err)
	}
	return raw, nil
}

// DecodeSchemaDoc unmarshals a persisted document back into a schema.
func DecodeSchemaDoc(raw []byte) (*model.StageFormSchema, error) {
	var s model.StageFormSchema
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode schema: %w", err)
	}
	return &s, nil
}
