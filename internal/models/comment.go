package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment represents a single entry on a ticket's conversation thread.
// Comments are owned by the same organization as their ticket.
type Comment struct {
	CommentID uuid.UUID // UUIDv7
	OrgID     uuid.UUID // UUIDv7, FK to organizations
	TicketID  uuid.UUID // UUIDv7, FK to tickets
	AuthorID  uuid.UUID // User who wrote the comment

	Body     string
	Internal bool // Agent-only note, hidden from the requester

	CreatedAt time.Time
}
