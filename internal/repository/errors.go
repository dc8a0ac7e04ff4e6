// Package repository contains data access logic separated from HTTP
// handlers.  Sentinel errors defined here let handlers translate failure
// scenarios into HTTP responses: errors wrapping ErrConflict become 409,
// ErrNoOrganization selects the empty-result path for callers that have no
// organization association.
package repository

import "errors"

// ErrConflict is the base error for operations that cannot proceed due to
// conflicting persisted state.  ErrEmailExists wraps it.
var ErrConflict = errors.New("conflict")

// ErrNoOrganization is returned when the authenticated user has no
// organization association.  Board listing treats this as an empty result
// rather than a failure.
var ErrNoOrganization = errors.New("no organization")
