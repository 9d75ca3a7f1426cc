package utils

import "github.com/google/uuid"

// NewID returns a fresh server-assigned identity. Client-side placeholder
// ids use the "offline-"/"optimistic-" prefixes instead, so the two are
// never confused.
func NewID() string {
	return uuid.New().String()
}
