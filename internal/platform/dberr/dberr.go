// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
//
// Stores call [Wrap] on every failed query. Services that must react to a
// specific constraint (duplicate usernames, a second review for the same
// title) inspect the result with [AsUniqueViolation].
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
)

// UniqueViolation reports a SQLSTATE 23505 failure on a named constraint.
type UniqueViolation struct {
	Constraint string
	Cause      error
}

func (e *UniqueViolation) Error() string {
	return fmt.Sprintf("unique violation on %s", e.Constraint)
}

func (e *UniqueViolation) Unwrap() error { return e.Cause }

// Wrap inspects a database error and classifies it.
//
//   - pgx.ErrNoRows becomes a 404 for resource.
//   - 23505 becomes a [*UniqueViolation] for the service to translate.
//   - 23503 and 23514 become a 400 (a referenced row is missing or a CHECK failed).
//   - Anything else is a 500 with the cause kept for logging.
func Wrap(err error, resource string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return &UniqueViolation{Constraint: pgErr.ConstraintName, Cause: err}
		case pgerrcode.ForeignKeyViolation:
			return apperr.ValidationError("Referenced object does not exist").WithCause(err)
		case pgerrcode.CheckViolation:
			return apperr.ValidationError("Value violates a data constraint").WithCause(err)
		}
	}

	return apperr.Internal(err)
}

// AsUniqueViolation extracts a [*UniqueViolation] from err's chain.
func AsUniqueViolation(err error) (*UniqueViolation, bool) {
	var violation *UniqueViolation
	if errors.As(err, &violation) {
		return violation, true
	}
	return nil, false
}

// IsUniqueViolation reports whether err is a unique violation on constraint.
func IsUniqueViolation(err error, constraint string) bool {
	violation, ok := AsUniqueViolation(err)
	return ok && violation.Constraint == constraint
}
