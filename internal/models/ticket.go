package models

import (
	"time"

	"github.com/google/uuid"
)

// TicketStatus represents the lifecycle state of a ticket.
const (
	TicketStatusOpen    = "open"    // Awaiting agent action
	TicketStatusPending = "pending" // Awaiting requester response
	TicketStatusSolved  = "solved"  // Resolution proposed
	TicketStatusClosed  = "closed"  // Terminal
)

// TicketPriority represents the urgency of a ticket.
const (
	TicketPriorityLow    = "low"
	TicketPriorityNormal = "normal"
	TicketPriorityHigh   = "high"
	TicketPriorityUrgent = "urgent"
)

// ValidTicketStatus returns true if status is one of the known lifecycle states.
func ValidTicketStatus(status string) bool {
	switch status {
	case TicketStatusOpen, TicketStatusPending, TicketStatusSolved, TicketStatusClosed:
		return true
	}
	return false
}

// ValidTicketPriority returns true if priority is one of the known levels.
func ValidTicketPriority(priority string) bool {
	switch priority {
	case TicketPriorityLow, TicketPriorityNormal, TicketPriorityHigh, TicketPriorityUrgent:
		return true
	}
	return false
}

// Ticket represents a support request raised inside one organization.
type Ticket struct {
	TicketID uuid.UUID // UUIDv7
	OrgID    uuid.UUID // UUIDv7, FK to organizations

	RequesterID uuid.UUID  // User who raised the ticket
	AssigneeID  *uuid.UUID // Agent working it, nil until assigned

	Subject  string
	Body     string
	Status   string // "open", "pending", "solved", "closed"
	Priority string // "low", "normal", "high", "urgent"

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsClosed returns true if the ticket has reached its terminal state.
func (t *Ticket) IsClosed() bool {
	return t.Status == TicketStatusClosed
}
