package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ehsan18t/insight-desk-sub000/internal/models"
)

type commentResponse struct {
	CommentID string    `json:"comment_id"`
	TicketID  string    `json:"ticket_id"`
	AuthorID  string    `json:"author_id"`
	Body      string    `json:"body"`
	Internal  bool      `json:"internal"`
	CreatedAt time.Time `json:"created_at"`
}

func newCommentResponse(c *models.Comment) commentResponse {
	return commentResponse{
		CommentID: c.CommentID.String(),
		TicketID:  c.TicketID.String(),
		AuthorID:  c.AuthorID.String(),
		Body:      c.Body,
		Internal:  c.Internal,
		CreatedAt: c.CreatedAt,
	}
}

type createCommentRequest struct {
	Body     string `json:"body"`
	Internal bool   `json:"internal"`
}

func (s *Server) createComment(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantContext(w, r)
	if !ok {
		return
	}
	if !tc.HasUser() {
		http.Error(w, "acting user required", http.StatusBadRequest)
		return
	}

	ticketID, err := uuid.Parse(chi.URLParam(r, "ticketID"))
	if err != nil {
		http.Error(w, "invalid ticket id", http.StatusBadRequest)
		return
	}

	var req createCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request body", http.StatusBadRequest)
		return
	}
	if req.Body == "" {
		http.Error(w, "body is required", http.StatusBadRequest)
		return
	}

	comment := &models.Comment{
		CommentID: uuid.Must(uuid.NewV7()),
		OrgID:     tc.OrgID(),
		TicketID:  ticketID,
		AuthorID:  tc.UserID(),
		Body:      req.Body,
		Internal:  req.Internal,
		CreatedAt: time.Now(),
	}

	err = s.db.RunScoped(r.Context(), tc, func(tx pgx.Tx) error {
		return s.stores.Comments.Create(r.Context(), tx, comment)
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, newCommentResponse(comment))
}

func (s *Server) listComments(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantContext(w, r)
	if !ok {
		return
	}

	ticketID, err := uuid.Parse(chi.URLParam(r, "ticketID"))
	if err != nil {
		http.Error(w, "invalid ticket id", http.StatusBadRequest)
		return
	}

	var comments []*models.Comment
	err = s.db.RunScoped(r.Context(), tc, func(tx pgx.Tx) error {
		// Resolve the ticket first so a missing or out-of-scope ticket
		// answers 404 instead of an empty thread.
		if _, err := s.stores.Tickets.Get(r.Context(), tx, ticketID); err != nil {
			return err
		}

		var err error
		comments, err = s.stores.Comments.ListByTicket(r.Context(), tx, ticketID)
		return err
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	resp := make([]commentResponse, 0, len(comments))
	for _, c := range comments {
		resp = append(resp, newCommentResponse(c))
	}
	writeJSON(w, http.StatusOK, map[string]any{"comments": resp})
}
