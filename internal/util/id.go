package util

import "github.com/google/uuid"

// NewID returns a random UUID string used as a row identifier.
func NewID() string {
	return uuid.NewString()
}
