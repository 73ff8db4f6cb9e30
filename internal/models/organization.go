package models

import (
	"time"

	"github.com/google/uuid"
)

// Organization represents a tenant in the system. Every tenant-owned row in
// the database carries this organization's ID, and row-level security confines
// each unit of work to exactly one organization.
type Organization struct {
	OrgID uuid.UUID // UUIDv7
	Name  string

	CreatedAt   time.Time
	UpdatedAt   time.Time
	SuspendedAt *time.Time // Soft suspension; suspended orgs are refused at the request layer
}

// IsSuspended returns true if the organization has been suspended.
func (o *Organization) IsSuspended() bool {
	return o.SuspendedAt != nil
}
