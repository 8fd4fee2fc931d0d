package sqlite

import (
	"errors"
	"fmt"

	sqlitedrv "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/alanyang/mission-control/internal/domain/apperr"
)

// Classify translates constraint violations into apperr kinds so callers can
// match them with errors.Is. Other errors pass through wrapped.
func Classify(err error, op string) error {
	var se *sqlitedrv.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%s: %w: %v", op, apperr.ErrConflict, err)
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return fmt.Errorf("%s: %w: %v", op, apperr.ErrNotFound, err)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
