package postgres

import (
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
)

// Builder renders squirrel statements with $n placeholders.
var Builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// IsErrorCode reports whether err wraps a postgres error with the given SQLSTATE.
func IsErrorCode(err error, code string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == code
	}

	return false
}
