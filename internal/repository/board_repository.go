package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Board represents a persisted pipeline board.  Boards are soft-deleted via
// deleted_at and scoped to one organization; only id and name are exposed
// through the API.
type Board struct {
	ID             string // boards.id (uuid)
	OrganizationID string // boards.organization_id
	Name           string // boards.name
}

// ErrBoardNotFound is returned when a board cannot be found in the DB.
var ErrBoardNotFound = errors.New("board not found")

// BoardRepo encapsulates all database queries related to boards.
type BoardRepo struct {
	db *sql.DB
}

// NewBoardRepo constructs a BoardRepo with the provided DB handle.
func NewBoardRepo(db *sql.DB) *BoardRepo {
	return &BoardRepo{db: db}
}

// ListByOrganization returns the organization's non-deleted boards ordered
// by name.  Rows outside the organization are never returned.
func (r *BoardRepo) ListByOrganization(ctx context.Context, orgID string) ([]*Board, error) {
	const q = `SELECT id, organization_id, name
	           FROM boards
	           WHERE organization_id = ? AND deleted_at IS NULL
	           ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Board
	for rows.Next() {
		b := new(Board)
		if err := rows.Scan(&b.ID, &b.OrganizationID, &b.Name); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByIDAndOrganization fetches a board by id but only if it belongs to
// the given organization and is not deleted.  ErrBoardNotFound is returned
// otherwise, so a board in a foreign organization is indistinguishable from
// a missing one.
func (r *BoardRepo) GetByIDAndOrganization(ctx context.Context, id, orgID string) (*Board, error) {
	const q = `SELECT id, organization_id, name
	           FROM boards
	           WHERE id = ? AND organization_id = ? AND deleted_at IS NULL`
	var b Board
	if err := r.db.QueryRowContext(ctx, q, id, orgID).Scan(&b.ID, &b.OrganizationID, &b.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBoardNotFound
		}
		return nil, err
	}
	return &b, nil
}
