package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"clinic/internal/repository"
)

// Helpers shared by the table repositories. Every statement runs on its own, so each
// operation is atomic at the statement level.

func ioErr(op string, id int, err error) error {
	return fmt.Errorf("%w: %s %d: %w", repository.ErrIO, op, id, err)
}

// affectOne turns a zero-row result into ErrNotFound.
func affectOne(res sql.Result, op string, id int) error {
	n, err := res.RowsAffected()
	if err != nil {
		return ioErr(op, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", repository.ErrNotFound, id)
	}
	return nil
}

// insertedOne reports a conflict-suppressed insert as ErrDuplicateKey.
func insertedOne(res sql.Result, op string, id int) error {
	n, err := res.RowsAffected()
	if err != nil {
		return ioErr(op, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", repository.ErrDuplicateKey, id)
	}
	return nil
}

func scanErr(op string, id int, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %d", repository.ErrNotFound, id)
	}
	return ioErr(op, id, err)
}
