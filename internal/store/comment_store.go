package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ehsan18t/insight-desk-sub000/internal/models"
)

// Sentinel errors for comment store operations
var (
	ErrCommentNotFound = errors.New("comment not found")
)

// CommentStore defines the interface for ticket comment storage operations.
type CommentStore interface {
	// Create appends a comment to a ticket's thread.
	// Returns ErrTicketNotFound if the ticket is not visible to the
	// transaction (the FK lookup is itself subject to row security).
	Create(ctx context.Context, tx pgx.Tx, comment *models.Comment) error

	// ListByTicket returns a ticket's visible comments oldest-first.
	ListByTicket(ctx context.Context, tx pgx.Tx, ticketID uuid.UUID) ([]*models.Comment, error)

	// Delete removes a comment.
	// Returns ErrCommentNotFound if no visible row was deleted.
	Delete(ctx context.Context, tx pgx.Tx, commentID uuid.UUID) error
}
