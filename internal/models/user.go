package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a person's global identity. Users are not owned by any one
// organization; they join organizations through memberships. The users table
// is readable to a scoped unit of work only for members of the active
// organization (and for the acting user themselves).
type User struct {
	UserID uuid.UUID // UUIDv7
	Email  string    // Unique across the system
	Name   string    // Display name

	CreatedAt time.Time
	UpdatedAt time.Time
}
