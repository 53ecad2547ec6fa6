package pipeline

import (
	"github.com/google/uuid"
)

// newJobID returns a time-ordered identifier so job listings sort by
// submission even when creation timestamps collide.
func newJobID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
