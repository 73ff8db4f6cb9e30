package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ehsan18t/insight-desk-sub000/internal/models"
)

// Sentinel errors for ticket store operations
var (
	ErrTicketNotFound = errors.New("ticket not found")
)

// TicketFilter narrows a ticket listing. Zero values mean no constraint.
type TicketFilter struct {
	Status   string // Filter by lifecycle state
	Priority string // Filter by priority level
	Limit    int32  // Max rows returned; store applies a default when 0
}

// TicketStatusCount is one row of a status aggregate.
type TicketStatusCount struct {
	Status string
	Count  int64
}

// OrgTicketCount is one row of a per-organization aggregate. Only an admin
// unit of work ever sees more than one organization here.
type OrgTicketCount struct {
	OrgID   uuid.UUID
	OrgName string
	Count   int64
}

// TicketStore defines the interface for ticket storage operations. Every
// method is confined by row security to the rows visible to its transaction:
// queries carry no org_id predicates of their own.
type TicketStore interface {
	// Create creates a new ticket.
	Create(ctx context.Context, tx pgx.Tx, ticket *models.Ticket) error

	// Get retrieves a ticket by ID.
	// Returns ErrTicketNotFound if the ticket doesn't exist or belongs to
	// another organization; the two are indistinguishable.
	Get(ctx context.Context, tx pgx.Tx, ticketID uuid.UUID) (*models.Ticket, error)

	// Update rewrites a ticket's mutable fields (subject, body, status,
	// priority, assignee). Returns ErrTicketNotFound if no visible row was
	// updated.
	Update(ctx context.Context, tx pgx.Tx, ticket *models.Ticket) error

	// Delete deletes a ticket and its comments.
	// Returns ErrTicketNotFound if no visible row was deleted.
	Delete(ctx context.Context, tx pgx.Tx, ticketID uuid.UUID) error

	// List returns visible tickets newest-first, narrowed by filter.
	List(ctx context.Context, tx pgx.Tx, filter TicketFilter) ([]*models.Ticket, error)

	// CountByStatus aggregates visible tickets by lifecycle state.
	CountByStatus(ctx context.Context, tx pgx.Tx) ([]*TicketStatusCount, error)

	// CountByOrg aggregates visible tickets per organization. A scoped unit
	// sees at most its own organization's row.
	CountByOrg(ctx context.Context, tx pgx.Tx) ([]*OrgTicketCount, error)
}
