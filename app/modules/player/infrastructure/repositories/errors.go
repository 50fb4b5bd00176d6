package playerdb

import (
	"errors"

	"github.com/uptrace/bun/driver/pgdriver"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrNotFound is returned when a player is not found.
var ErrNotFound = errors.New("player not found")

// ErrDuplicateName is returned when a player with the same normalized name
// already exists.
var ErrDuplicateName = errors.New("player name already exists")

const pgUniqueViolation = "23505"

// isUniqueViolation reports whether err is a unique-constraint failure from
// either supported driver.
func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('C') == pgUniqueViolation
	}
	return false
}
