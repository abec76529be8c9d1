// Package apperrors defines sentinel errors shared across layers.
package apperrors

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrDuplicateTag = errors.New("tag already in use")
)
