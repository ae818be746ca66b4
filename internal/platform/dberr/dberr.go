// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/cogmem/memoryd/internal/platform/apperr"
)

var (
	// ErrNotFound is a standard error returned when a queried row doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")

	// ErrDoubleDelete is returned when the revision trigger rejects a
	// mutation of an insight that is already soft-deleted, or the proposal
	// settlement trigger rejects settling a proposal that is already settled.
	ErrDoubleDelete = apperr.Conflict("Resource already deleted")
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error
// kind by SQLSTATE rather than collapsing everything into an internal error.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return apperr.Transient(err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return apperr.Conflict("Duplicate value for " + pgErr.ConstraintName)
		case pgerrcode.RaiseException:
			// The revision trigger raises a plain EXCEPTION (not a distinct
			// SQLSTATE) when a mutation targets an already soft-deleted row.
			if isDoubleDeleteSignal(pgErr.Message) {
				return ErrDoubleDelete
			}
			return apperr.Internal(err)
		case pgerrcode.ConnectionException,
			pgerrcode.ConnectionDoesNotExist,
			pgerrcode.ConnectionFailure,
			pgerrcode.SQLClientUnableToEstablishSQLConnection,
			pgerrcode.SQLServerRejectedEstablishmentOfSQLConnection:
			return apperr.Transient(err)
		case pgerrcode.TooManyConnections,
			pgerrcode.ConfigurationLimitExceeded:
			return apperr.Capacity(err)
		case pgerrcode.CheckViolation, pgerrcode.NotNullViolation, pgerrcode.RestrictViolation:
			return apperr.ValidationError(pgErr.Message)
		}
	}

	return apperr.Internal(err)
}

// isDoubleDeleteSignal reports whether a raised exception message originates
// from the insight revision trigger's double-delete guard or the proposal
// settlement trigger's already-settled guard.
func isDoubleDeleteSignal(msg string) bool {
	return msg == "insight already deleted" || msg == "proposal already settled"
}
