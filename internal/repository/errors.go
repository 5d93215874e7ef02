// Package repository holds the SQL data access layer for admins, projects and
// content.  Every statement is parameterised with `?` placeholders, which both
// supported drivers accept.
//
// Errors fall into two groups.  ErrNotFound is returned by single-row lookups
// that match nothing.  Anything the driver reports is wrapped in a
// *StorageError so handlers can map it to HTTP 500 with errors.As.
package repository

import (
	"database/sql"
	"errors"
)

// ErrNotFound is returned when a lookup by key matches no row.
var ErrNotFound = errors.New("not found")

// StorageError wraps a database failure.  Error returns the driver message
// unchanged; Op names the repository call for logging.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return e.Err.Error() }

func (e *StorageError) Unwrap() error { return e.Err }

// storageErr wraps err unless it is nil or already a StorageError.
func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// lookupErr turns sql.ErrNoRows into ErrNotFound and wraps everything else.
func lookupErr(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return storageErr(op, err)
}
