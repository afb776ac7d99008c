package platform

import "github.com/google/uuid"

// NewID returns a random UUID string used as a primary key for new rows.
func NewID() string {
	return uuid.New().String()
}
