package models

import (
	"time"

	"github.com/google/uuid"
)

// Role names the part a user plays inside one organization. Roles are stored
// and reported; this service does not run an authorization engine on top of
// them.
const (
	RoleAdmin  = "admin"  // Manages the organization
	RoleAgent  = "agent"  // Works tickets
	RoleViewer = "viewer" // Read-only participant
)

// ValidRole returns true if role is one of the known role names.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleAgent, RoleViewer:
		return true
	}
	return false
}

// Membership ties a user to an organization with a role. A user may hold
// memberships in several organizations; each row is owned by its organization,
// with a narrow self-read exception so a user can list their own memberships
// across organizations.
type Membership struct {
	MembershipID uuid.UUID // UUIDv7
	OrgID        uuid.UUID // UUIDv7, FK to organizations
	UserID       uuid.UUID // UUIDv7, FK to users
	Role         string    // "admin", "agent", "viewer"

	CreatedAt time.Time
	UpdatedAt time.Time
}
