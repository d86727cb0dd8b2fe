package id

import "github.com/google/uuid"

// GenerateID creates a unique random identifier for sessions and results.
func GenerateID() string {
	return uuid.NewString()
}
