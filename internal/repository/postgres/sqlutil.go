package postgres

import (
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/satu-n/sprig/internal/apperr"
)

// join mirrors the teacher's joinStrings helper for building dynamic
// UPDATE ... SET clauses.
func join(parts []string, sep string) string {
	if len(parts) == 0 {
		return ""
	}
	out := parts[0]
	for _, p := range parts[1:] {
		out += sep + p
	}
	return out
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

// pgUniqueViolation is the SQLSTATE Postgres raises for a unique-constraint
// violation.
const pgUniqueViolation = "23505"

// classifyErr maps a write's driver error onto the core's db error
// taxonomy (spec.md §7): a unique-constraint violation is a BadRequest
// the caller can act on, everything else is an opaque InternalServerError.
func classifyErr(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return apperr.NewBadRequest(pgErr.Message)
	}
	return apperr.Wrap(err)
}
