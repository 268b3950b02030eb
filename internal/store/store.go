// Copyright (c) 2026 Inkwell Authors
// All rights reserved. See LICENSE for details.

// Package store provides database access methods for all Inkwell
// entities. Each store struct wraps a *sql.DB and exposes typed query
// methods. Multi-step writes (slug resolution, association replacement)
// run inside a single transaction so concurrent requests cannot observe
// or produce partial state.
package store

import (
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
)

// psql builds queries with PostgreSQL-style $N placeholders.
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// isUniqueViolation reports whether err is a PostgreSQL unique-constraint
// violation (SQLSTATE 23505). Writes that lose a race on a slug or
// category name surface it as models.ErrConflict.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// isForeignKeyViolation reports whether err is a PostgreSQL foreign-key
// violation (SQLSTATE 23503), e.g. associating a post with a category id
// that does not exist.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
