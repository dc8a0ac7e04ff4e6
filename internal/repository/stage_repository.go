package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Stage represents a pipeline position inside one board.  Stages carry an
// explicit order column that fixes their left-to-right placement.
type Stage struct {
	ID      string // board_stages.id (uuid)
	BoardID string // board_stages.board_id
	Name    string // board_stages.name
	Order   int    // board_stages.display_order
}

// ErrStageNotFound is returned when a stage lookup fails.
var ErrStageNotFound = errors.New("stage not found")

// StageRepo provides queries over board stages.
type StageRepo struct {
	db *sql.DB
}

// NewStageRepo constructs a StageRepo with the given DB handle.
func NewStageRepo(db *sql.DB) *StageRepo {
	return &StageRepo{db: db}
}

// ListByBoard returns the stages of a board ordered by their explicit order
// column ascending.
func (r *StageRepo) ListByBoard(ctx context.Context, boardID string) ([]*Stage, error) {
	const q = `SELECT id, board_id, name, display_order
	           FROM board_stages
	           WHERE board_id = ?
	           ORDER BY display_order ASC`
	rows, err := r.db.QueryContext(ctx, q, boardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Stage
	for rows.Next() {
		s := new(Stage)
		if err := rows.Scan(&s.ID, &s.BoardID, &s.Name, &s.Order); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByIDAndOrganization fetches a stage by id, but only when its owning
// board belongs to the given organization.  Used to gate schema reads and
// writes on org membership.
func (r *StageRepo) GetByIDAndOrganization(ctx context.Context, id, orgID string) (*Stage, error) {
	const q = `SELECT s.id, s.board_id, s.name, s.display_order
	           FROM board_stages s
	           JOIN boards b ON b.id = s.board_id
	           WHERE s.id = ? AND b.organization_id = ? AND b.deleted_at IS NULL`
	var s Stage
	if err := r.db.QueryRowContext(ctx, q, id, orgID).Scan(&s.ID, &s.BoardID, &s.Name, &s.Order); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStageNotFound
		}
		return nil, err
	}
	return &s, nil
}
