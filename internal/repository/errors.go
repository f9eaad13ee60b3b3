package repository

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a record with the same id already exists.
	ErrConflict = errors.New("already exists")

	// ErrInvalidLane indicates a tactic referenced a lane that does not exist.
	ErrInvalidLane = errors.New("unknown lane")
)

// classifySQLiteError maps driver constraint failures onto package errors.
func classifySQLiteError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return ErrConflict
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return ErrInvalidLane
	default:
		return nil
	}
}
