package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"github.com/ehsan18t/insight-desk-sub000/internal/models"
	"github.com/ehsan18t/insight-desk-sub000/internal/store"
)

// CommentStore implements store.CommentStore using PostgreSQL.
type CommentStore struct{}

// NewCommentStore creates a new PostgreSQL-backed comment store.
func NewCommentStore() *CommentStore {
	return &CommentStore{}
}

// Create appends a comment to a ticket's thread. The composite foreign key
// on (org_id, ticket_id) rejects comments aimed at another organization's
// ticket even though foreign key checks bypass row security.
func (s *CommentStore) Create(ctx context.Context, tx pgx.Tx, comment *models.Comment) error {
	query := `
		INSERT INTO ticket_comments (
			comment_id, org_id, ticket_id, author_id, body, internal, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
	`

	_, err := tx.Exec(ctx, query,
		comment.CommentID,
		comment.OrgID,
		comment.TicketID,
		comment.AuthorID,
		comment.Body,
		comment.Internal,
		comment.CreatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			if violatedConstraint(err) == "ticket_comments_author_id_fkey" {
				return store.ErrUserNotFound
			}
			return store.ErrTicketNotFound
		}
		return mapPostgresError(err)
	}

	log.Debug().
		Str("comment_id", comment.CommentID.String()).
		Str("ticket_id", comment.TicketID.String()).
		Msg("Created comment")

	return nil
}

// ListByTicket returns a ticket's visible comments oldest-first.
func (s *CommentStore) ListByTicket(ctx context.Context, tx pgx.Tx, ticketID uuid.UUID) ([]*models.Comment, error) {
	query := `
		SELECT comment_id, org_id, ticket_id, author_id, body, internal, created_at
		FROM ticket_comments
		WHERE ticket_id = $1
		ORDER BY created_at
	`

	rows, err := tx.Query(ctx, query, ticketID)
	if err != nil {
		return nil, mapPostgresError(err)
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		var c models.Comment
		err := rows.Scan(
			&c.CommentID,
			&c.OrgID,
			&c.TicketID,
			&c.AuthorID,
			&c.Body,
			&c.Internal,
			&c.CreatedAt,
		)
		if err != nil {
			return nil, mapPostgresError(err)
		}
		comments = append(comments, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, mapPostgresError(err)
	}

	return comments, nil
}

// Delete removes a comment.
func (s *CommentStore) Delete(ctx context.Context, tx pgx.Tx, commentID uuid.UUID) error {
	query := `DELETE FROM ticket_comments WHERE comment_id = $1`

	result, err := tx.Exec(ctx, query, commentID)
	if err != nil {
		return mapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return store.ErrCommentNotFound
	}

	log.Debug().
		Str("comment_id", commentID.String()).
		Msg("Deleted comment")

	return nil
}
