// Package repository implements the domain repositories on PostgreSQL.
//
// The schema backs the admission rules with constraints: an exclusion
// constraint keeps showtimes of a theater from overlapping and a unique
// constraint keeps a seat from being booked twice for one showtime.
// Constraint violations are translated into the matching domain errors.
package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}

	return ""
}

func pgConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}

	return ""
}
