package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ehsan18t/insight-desk-sub000/internal/models"
	"github.com/ehsan18t/insight-desk-sub000/internal/store"
)

type ticketResponse struct {
	TicketID    string    `json:"ticket_id"`
	OrgID       string    `json:"org_id"`
	RequesterID string    `json:"requester_id"`
	AssigneeID  *string   `json:"assignee_id,omitempty"`
	Subject     string    `json:"subject"`
	Body        string    `json:"body"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newTicketResponse(t *models.Ticket) ticketResponse {
	resp := ticketResponse{
		TicketID:    t.TicketID.String(),
		OrgID:       t.OrgID.String(),
		RequesterID: t.RequesterID.String(),
		Subject:     t.Subject,
		Body:        t.Body,
		Status:      t.Status,
		Priority:    t.Priority,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.AssigneeID != nil {
		assignee := t.AssigneeID.String()
		resp.AssigneeID = &assignee
	}
	return resp
}

type createTicketRequest struct {
	Subject  string `json:"subject"`
	Body     string `json:"body"`
	Priority string `json:"priority"`
}

func (s *Server) createTicket(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantContext(w, r)
	if !ok {
		return
	}
	if !tc.HasUser() {
		http.Error(w, "acting user required", http.StatusBadRequest)
		return
	}

	var req createTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request body", http.StatusBadRequest)
		return
	}
	if req.Subject == "" {
		http.Error(w, "subject is required", http.StatusBadRequest)
		return
	}
	if req.Priority == "" {
		req.Priority = models.TicketPriorityNormal
	}
	if !models.ValidTicketPriority(req.Priority) {
		http.Error(w, "unknown priority", http.StatusBadRequest)
		return
	}

	now := time.Now()
	ticket := &models.Ticket{
		TicketID:    uuid.Must(uuid.NewV7()),
		OrgID:       tc.OrgID(),
		RequesterID: tc.UserID(),
		Subject:     req.Subject,
		Body:        req.Body,
		Status:      models.TicketStatusOpen,
		Priority:    req.Priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.db.RunScoped(r.Context(), tc, func(tx pgx.Tx) error {
		return s.stores.Tickets.Create(r.Context(), tx, ticket)
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, newTicketResponse(ticket))
}

func (s *Server) getTicket(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantContext(w, r)
	if !ok {
		return
	}

	ticketID, err := uuid.Parse(chi.URLParam(r, "ticketID"))
	if err != nil {
		http.Error(w, "invalid ticket id", http.StatusBadRequest)
		return
	}

	var ticket *models.Ticket
	err = s.db.RunScoped(r.Context(), tc, func(tx pgx.Tx) error {
		var err error
		ticket, err = s.stores.Tickets.Get(r.Context(), tx, ticketID)
		return err
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newTicketResponse(ticket))
}

func (s *Server) listTickets(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantContext(w, r)
	if !ok {
		return
	}

	filter := store.TicketFilter{
		Status:   r.URL.Query().Get("status"),
		Priority: r.URL.Query().Get("priority"),
	}
	if filter.Status != "" && !models.ValidTicketStatus(filter.Status) {
		http.Error(w, "unknown status", http.StatusBadRequest)
		return
	}
	if filter.Priority != "" && !models.ValidTicketPriority(filter.Priority) {
		http.Error(w, "unknown priority", http.StatusBadRequest)
		return
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.ParseInt(limitStr, 10, 32)
		if err != nil || limit < 1 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		filter.Limit = int32(limit)
	}

	var tickets []*models.Ticket
	err := s.db.RunScoped(r.Context(), tc, func(tx pgx.Tx) error {
		var err error
		tickets, err = s.stores.Tickets.List(r.Context(), tx, filter)
		return err
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	resp := make([]ticketResponse, 0, len(tickets))
	for _, t := range tickets {
		resp = append(resp, newTicketResponse(t))
	}
	writeJSON(w, http.StatusOK, map[string]any{"tickets": resp})
}

type updateTicketRequest struct {
	Subject    *string `json:"subject"`
	Body       *string `json:"body"`
	Status     *string `json:"status"`
	Priority   *string `json:"priority"`
	AssigneeID *string `json:"assignee_id"` // empty string clears the assignee
}

func (s *Server) updateTicket(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantContext(w, r)
	if !ok {
		return
	}

	ticketID, err := uuid.Parse(chi.URLParam(r, "ticketID"))
	if err != nil {
		http.Error(w, "invalid ticket id", http.StatusBadRequest)
		return
	}

	var req updateTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request body", http.StatusBadRequest)
		return
	}
	if req.Subject != nil && *req.Subject == "" {
		http.Error(w, "subject cannot be empty", http.StatusBadRequest)
		return
	}
	if req.Status != nil && !models.ValidTicketStatus(*req.Status) {
		http.Error(w, "unknown status", http.StatusBadRequest)
		return
	}
	if req.Priority != nil && !models.ValidTicketPriority(*req.Priority) {
		http.Error(w, "unknown priority", http.StatusBadRequest)
		return
	}

	var assignee *uuid.UUID
	if req.AssigneeID != nil && *req.AssigneeID != "" {
		id, err := uuid.Parse(*req.AssigneeID)
		if err != nil {
			http.Error(w, "invalid assignee id", http.StatusBadRequest)
			return
		}
		assignee = &id
	}

	var ticket *models.Ticket
	err = s.db.RunScoped(r.Context(), tc, func(tx pgx.Tx) error {
		var err error
		ticket, err = s.stores.Tickets.Get(r.Context(), tx, ticketID)
		if err != nil {
			return err
		}

		if req.Subject != nil {
			ticket.Subject = *req.Subject
		}
		if req.Body != nil {
			ticket.Body = *req.Body
		}
		if req.Status != nil {
			ticket.Status = *req.Status
		}
		if req.Priority != nil {
			ticket.Priority = *req.Priority
		}
		if req.AssigneeID != nil {
			ticket.AssigneeID = assignee
		}

		return s.stores.Tickets.Update(r.Context(), tx, ticket)
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newTicketResponse(ticket))
}

func (s *Server) deleteTicket(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantContext(w, r)
	if !ok {
		return
	}

	ticketID, err := uuid.Parse(chi.URLParam(r, "ticketID"))
	if err != nil {
		http.Error(w, "invalid ticket id", http.StatusBadRequest)
		return
	}

	err = s.db.RunScoped(r.Context(), tc, func(tx pgx.Tx) error {
		return s.stores.Tickets.Delete(r.Context(), tx, ticketID)
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type statusCountResponse struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

func (s *Server) ticketStats(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantContext(w, r)
	if !ok {
		return
	}

	var counts []*store.TicketStatusCount
	err := s.db.RunScoped(r.Context(), tc, func(tx pgx.Tx) error {
		var err error
		counts, err = s.stores.Tickets.CountByStatus(r.Context(), tx)
		return err
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	resp := make([]statusCountResponse, 0, len(counts))
	for _, c := range counts {
		resp = append(resp, statusCountResponse{Status: c.Status, Count: c.Count})
	}
	writeJSON(w, http.StatusOK, map[string]any{"counts": resp})
}
