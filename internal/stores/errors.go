package stores

import "errors"

var (
	// ErrProjectNotFound means no project matches the supplied write key.
	ErrProjectNotFound = errors.New("project not found")
)
