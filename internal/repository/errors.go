// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// service and handler packages to distinguish between different failure
// scenarios without depending on database/sql.
package repository

import (
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when a row addressed by id (or by id and owner)
// does not exist. Handlers translate it into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a write violates a uniqueness or
// foreign key constraint. Handlers translate it into an HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrUsernameExists is returned by UserRepo.Create for a taken username.
var ErrUsernameExists = errors.New("username already exists")

// mysqlDuplicateEntry and mysqlForeignKey are the server error numbers
// for unique and foreign key violations.
const (
	mysqlDuplicateEntry = 1062
	mysqlForeignKey     = 1452
)

// notFound maps sql.ErrNoRows onto ErrNotFound and leaves other errors as is.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// isMySQLError reports whether err is a server error with the given number.
func isMySQLError(err error, number uint16) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == number
}

// affectedOrNotFound turns a zero-row update or delete into ErrNotFound.
func affectedOrNotFound(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
