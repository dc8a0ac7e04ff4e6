package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rotacarga/freight-crm/internal/utils"
)

// User mirrors the 'users' table.  OrganizationID is nullable: a user may
// exist before being attached to an organization, in which case org-scoped
// listings come back empty.
type User struct {
	ID             uint64
	Email          string
	PasswordHash   string
	Role           string
	OrganizationID sql.NullString
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// ErrEmailExists wraps ErrConflict: registering a taken address answers 409.
var ErrEmailExists = fmt.Errorf("email already exists: %w", ErrConflict)

// Create inserts a user and returns its ID.
func (r *UserRepo) Create(ctx context.Context, email, password, role string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, role) VALUES (?,?,?)",
		email, hash, role)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,password_hash,role,organization_id,is_active,created_at,updated_at FROM users WHERE email=? LIMIT 1",
		email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.OrganizationID, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (User, error) {
	var u User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,password_hash,role,organization_id,is_active,created_at,updated_at FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.OrganizationID, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// OrganizationID returns the organization a user belongs to.
// ErrNoOrganization is returned when the user has none; board listings map
// that to an empty result instead of failing.
func (r *UserRepo) OrganizationID(ctx context.Context, userID uint64) (string, error) {
	var org sql.NullString
	err := r.DB.QueryRowContext(ctx,
		"SELECT organization_id FROM users WHERE id=? LIMIT 1",
		userID).Scan(&org)
	if err != nil {
		return "", err
	}
	if !org.Valid || org.String == "" {
		return "", ErrNoOrganization
	}
	return org.String, nil
}
