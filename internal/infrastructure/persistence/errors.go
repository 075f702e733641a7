package persistence

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes this package reacts to
const (
	pgUniqueViolation = "23505"
)

// Constraint names created by the migrations
const (
	constraintActorThumbprint = "uq_actors_certificate_thumbprint"
	constraintGridAreaCode    = "uq_grid_areas_code"
)

// isUniqueViolation reports whether err is a unique violation of the named
// constraint, or of any constraint when constraint is empty.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
