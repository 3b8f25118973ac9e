package db

import (
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

var (
	// ErrConflict reports a primary-key or unique constraint violation.
	ErrConflict = errors.New("db: duplicate key")
	// ErrNotFound reports that a write targeted a row that does not exist.
	ErrNotFound = errors.New("db: not found")
)

// wrap tags constraint violations with ErrConflict and annotates everything
// else with the failing operation.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var se sqlite3.Error
	if errors.As(err, &se) && se.Code == sqlite3.ErrConstraint {
		switch se.ExtendedCode {
		case sqlite3.ErrConstraintPrimaryKey, sqlite3.ErrConstraintUnique:
			return fmt.Errorf("%s: %w: %v", op, ErrConflict, err)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
