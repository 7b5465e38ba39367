package repository

import "errors"

// Sentinel errors shared by all repositories. Services translate these into
// the HTTP-facing error taxonomy.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)
