package store

import (
	"errors"
	"strings"

	"github.com/oklog/ulid/v2"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrEmailTaken is returned when inserting a user whose email already exists.
var ErrEmailTaken = errors.New("email already taken")

// isUniqueViolation reports whether err is a UNIQUE constraint failure on
// the given "table.column".
func isUniqueViolation(err error, column string) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	if se.Code()&0xff != sqlite3.SQLITE_CONSTRAINT {
		return false
	}
	msg := se.Error()
	return strings.Contains(msg, "UNIQUE") && strings.Contains(msg, column)
}

func newID() string {
	return ulid.Make().String()
}
