package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"github.com/ehsan18t/insight-desk-sub000/internal/models"
	"github.com/ehsan18t/insight-desk-sub000/internal/store"
)

// TicketStore implements store.TicketStore using PostgreSQL. No query below
// carries an org_id predicate; the visible row set is whatever row security
// grants the transaction.
type TicketStore struct{}

// NewTicketStore creates a new PostgreSQL-backed ticket store.
func NewTicketStore() *TicketStore {
	return &TicketStore{}
}

// Create creates a new ticket.
func (s *TicketStore) Create(ctx context.Context, tx pgx.Tx, ticket *models.Ticket) error {
	query := `
		INSERT INTO tickets (
			ticket_id, org_id, requester_id, assignee_id,
			subject, body, status, priority, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)
	`

	_, err := tx.Exec(ctx, query,
		ticket.TicketID,
		ticket.OrgID,
		ticket.RequesterID,
		ticket.AssigneeID,
		ticket.Subject,
		ticket.Body,
		ticket.Status,
		ticket.Priority,
		ticket.CreatedAt,
		ticket.UpdatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			return store.ErrUserNotFound
		}
		return mapPostgresError(err)
	}

	log.Debug().
		Str("ticket_id", ticket.TicketID.String()).
		Str("status", ticket.Status).
		Msg("Created ticket")

	return nil
}

// Get retrieves a ticket by ID.
func (s *TicketStore) Get(ctx context.Context, tx pgx.Tx, ticketID uuid.UUID) (*models.Ticket, error) {
	query := `
		SELECT ticket_id, org_id, requester_id, assignee_id,
		       subject, body, status, priority, created_at, updated_at
		FROM tickets
		WHERE ticket_id = $1
	`

	var ticket models.Ticket
	err := tx.QueryRow(ctx, query, ticketID).Scan(
		&ticket.TicketID,
		&ticket.OrgID,
		&ticket.RequesterID,
		&ticket.AssigneeID,
		&ticket.Subject,
		&ticket.Body,
		&ticket.Status,
		&ticket.Priority,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Absent and out-of-scope tickets are indistinguishable here
			return nil, store.ErrTicketNotFound
		}
		return nil, mapPostgresError(err)
	}

	return &ticket, nil
}

// Update rewrites a ticket's mutable fields.
func (s *TicketStore) Update(ctx context.Context, tx pgx.Tx, ticket *models.Ticket) error {
	ticket.UpdatedAt = time.Now()

	query := `
		UPDATE tickets SET
			subject = $2,
			body = $3,
			status = $4,
			priority = $5,
			assignee_id = $6,
			updated_at = $7
		WHERE ticket_id = $1
	`

	result, err := tx.Exec(ctx, query,
		ticket.TicketID,
		ticket.Subject,
		ticket.Body,
		ticket.Status,
		ticket.Priority,
		ticket.AssigneeID,
		ticket.UpdatedAt,
	)

	if err != nil {
		return mapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return store.ErrTicketNotFound
	}

	log.Debug().
		Str("ticket_id", ticket.TicketID.String()).
		Str("status", ticket.Status).
		Msg("Updated ticket")

	return nil
}

// Delete deletes a ticket; its comments go with it via the FK cascade.
func (s *TicketStore) Delete(ctx context.Context, tx pgx.Tx, ticketID uuid.UUID) error {
	query := `DELETE FROM tickets WHERE ticket_id = $1`

	result, err := tx.Exec(ctx, query, ticketID)
	if err != nil {
		return mapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return store.ErrTicketNotFound
	}

	log.Debug().
		Str("ticket_id", ticketID.String()).
		Msg("Deleted ticket")

	return nil
}

// List returns visible tickets newest-first, narrowed by filter.
func (s *TicketStore) List(ctx context.Context, tx pgx.Tx, filter store.TicketFilter) ([]*models.Ticket, error) {
	// Build query with filters
	baseQuery := `
		SELECT ticket_id, org_id, requester_id, assignee_id,
		       subject, body, status, priority, created_at, updated_at
		FROM tickets
		WHERE 1=1
	`

	var conditions []string
	var args []any
	argIdx := 1

	// Filter by status (optional)
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("AND status = $%d", argIdx))
		args = append(args, filter.Status)
		argIdx++
	}

	// Filter by priority (optional)
	if filter.Priority != "" {
		conditions = append(conditions, fmt.Sprintf("AND priority = $%d", argIdx))
		args = append(args, filter.Priority)
		argIdx++
	}

	// Build final query
	query := baseQuery
	for _, cond := range conditions {
		query += " " + cond
	}
	query += " ORDER BY created_at DESC"

	limit := int32(50) // Default page size
	if filter.Limit > 0 && filter.Limit <= 200 {
		limit = filter.Limit
	}

	query += fmt.Sprintf(" LIMIT $%d", argIdx)
	args = append(args, limit)

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, mapPostgresError(err)
	}
	defer rows.Close()

	var tickets []*models.Ticket
	for rows.Next() {
		var ticket models.Ticket
		err := rows.Scan(
			&ticket.TicketID,
			&ticket.OrgID,
			&ticket.RequesterID,
			&ticket.AssigneeID,
			&ticket.Subject,
			&ticket.Body,
			&ticket.Status,
			&ticket.Priority,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
		)
		if err != nil {
			return nil, mapPostgresError(err)
		}
		tickets = append(tickets, &ticket)
	}

	if err := rows.Err(); err != nil {
		return nil, mapPostgresError(err)
	}

	return tickets, nil
}

// CountByStatus aggregates visible tickets by lifecycle state.
func (s *TicketStore) CountByStatus(ctx context.Context, tx pgx.Tx) ([]*store.TicketStatusCount, error) {
	query := `
		SELECT status, count(*)
		FROM tickets
		GROUP BY status
		ORDER BY status
	`

	rows, err := tx.Query(ctx, query)
	if err != nil {
		return nil, mapPostgresError(err)
	}
	defer rows.Close()

	var counts []*store.TicketStatusCount
	for rows.Next() {
		var c store.TicketStatusCount
		if err := rows.Scan(&c.Status, &c.Count); err != nil {
			return nil, mapPostgresError(err)
		}
		counts = append(counts, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, mapPostgresError(err)
	}

	return counts, nil
}

// CountByOrg aggregates visible tickets per organization. Under a scoped
// transaction the join sees at most the active organization; under an admin
// transaction it reports every organization, including ticketless ones.
func (s *TicketStore) CountByOrg(ctx context.Context, tx pgx.Tx) ([]*store.OrgTicketCount, error) {
	query := `
		SELECT o.org_id, o.name, count(t.ticket_id)
		FROM organizations o
		LEFT JOIN tickets t ON t.org_id = o.org_id
		GROUP BY o.org_id, o.name
		ORDER BY o.name
	`

	rows, err := tx.Query(ctx, query)
	if err != nil {
		return nil, mapPostgresError(err)
	}
	defer rows.Close()

	var counts []*store.OrgTicketCount
	for rows.Next() {
		var c store.OrgTicketCount
		if err := rows.Scan(&c.OrgID, &c.OrgName, &c.Count); err != nil {
			return nil, mapPostgresError(err)
		}
		counts = append(counts, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, mapPostgresError(err)
	}

	return counts, nil
}
