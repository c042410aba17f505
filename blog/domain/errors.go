package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no post exists for a given id.
var ErrNotFound = errors.New("post not found")

// ValidationError reports a missing required field on a post.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}
