package models

import "github.com/google/uuid"

// NewID returns a random identifier with a readable prefix, e.g. "order-…"
func NewID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}
