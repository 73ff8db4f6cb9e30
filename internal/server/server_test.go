package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/ehsan18t/insight-desk-sub000/internal/models"
	"github.com/ehsan18t/insight-desk-sub000/internal/store"
	"github.com/ehsan18t/insight-desk-sub000/internal/tenant"
)

// mockRunner runs work closures directly, standing in for a scoped unit of
// work. The tx handed to the closure is nil; the mock stores never touch it.
type mockRunner struct {
	lastTC   tenant.Context
	runErr   error
	runCount int
}

func (m *mockRunner) RunScoped(ctx context.Context, tc tenant.Context, fn store.WorkFunc) error {
	if !tc.Valid() {
		return tenant.ErrInvalidContext
	}
	m.lastTC = tc
	m.runCount++
	if m.runErr != nil {
		return m.runErr
	}
	return fn(nil)
}

// mockTicketStore is an in-memory implementation of store.TicketStore for testing
type mockTicketStore struct {
	store.TicketStore
	tickets   map[uuid.UUID]*models.Ticket
	createErr error
}

func newMockTicketStore() *mockTicketStore {
	return &mockTicketStore{tickets: make(map[uuid.UUID]*models.Ticket)}
}

func (m *mockTicketStore) Create(ctx context.Context, tx pgx.Tx, ticket *models.Ticket) error {
	if m.createErr != nil {
		return m.createErr
	}
	copied := *ticket
	m.tickets[ticket.TicketID] = &copied
	return nil
}

func (m *mockTicketStore) Get(ctx context.Context, tx pgx.Tx, ticketID uuid.UUID) (*models.Ticket, error) {
	t, ok := m.tickets[ticketID]
	if !ok {
		return nil, store.ErrTicketNotFound
	}
	copied := *t
	return &copied, nil
}

func (m *mockTicketStore) Update(ctx context.Context, tx pgx.Tx, ticket *models.Ticket) error {
	if _, ok := m.tickets[ticket.TicketID]; !ok {
		return store.ErrTicketNotFound
	}
	copied := *ticket
	m.tickets[ticket.TicketID] = &copied
	return nil
}

func (m *mockTicketStore) Delete(ctx context.Context, tx pgx.Tx, ticketID uuid.UUID) error {
	if _, ok := m.tickets[ticketID]; !ok {
		return store.ErrTicketNotFound
	}
	delete(m.tickets, ticketID)
	return nil
}

func (m *mockTicketStore) List(ctx context.Context, tx pgx.Tx, filter store.TicketFilter) ([]*models.Ticket, error) {
	var out []*models.Ticket
	for _, t := range m.tickets {
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && t.Priority != filter.Priority {
			continue
		}
		copied := *t
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *mockTicketStore) CountByStatus(ctx context.Context, tx pgx.Tx) ([]*store.TicketStatusCount, error) {
	byStatus := make(map[string]int64)
	for _, t := range m.tickets {
		byStatus[t.Status]++
	}
	var out []*store.TicketStatusCount
	for status, count := range byStatus {
		out = append(out, &store.TicketStatusCount{Status: status, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Status < out[j].Status })
	return out, nil
}

// mockCommentStore is an in-memory implementation of store.CommentStore for testing
type mockCommentStore struct {
	store.CommentStore
	comments  []*models.Comment
	createErr error
}

func (m *mockCommentStore) Create(ctx context.Context, tx pgx.Tx, comment *models.Comment) error {
	if m.createErr != nil {
		return m.createErr
	}
	copied := *comment
	m.comments = append(m.comments, &copied)
	return nil
}

func (m *mockCommentStore) ListByTicket(ctx context.Context, tx pgx.Tx, ticketID uuid.UUID) ([]*models.Comment, error) {
	var out []*models.Comment
	for _, c := range m.comments {
		if c.TicketID == ticketID {
			copied := *c
			out = append(out, &copied)
		}
	}
	return out, nil
}

type mockOrganizationStore struct {
	store.OrganizationStore
	org *models.Organization
}

func (m *mockOrganizationStore) Get(ctx context.Context, tx pgx.Tx, orgID uuid.UUID) (*models.Organization, error) {
	if m.org == nil || m.org.OrgID != orgID {
		return nil, store.ErrOrganizationNotFound
	}
	copied := *m.org
	return &copied, nil
}

type mockMembershipStore struct {
	store.MembershipStore
	mine []*models.Membership
}

func (m *mockMembershipStore) ListMine(ctx context.Context, tx pgx.Tx, userID uuid.UUID) ([]*models.Membership, error) {
	var out []*models.Membership
	for _, mm := range m.mine {
		if mm.UserID == userID {
			out = append(out, mm)
		}
	}
	return out, nil
}

// withTenant injects a tenant context the way the auth middleware would.
func withTenant(tc tenant.Context) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(tenant.WithContext(r.Context(), tc)))
		})
	}
}

type testEnv struct {
	server      *httptest.Server
	runner      *mockRunner
	tickets     *mockTicketStore
	comments    *mockCommentStore
	orgs        *mockOrganizationStore
	memberships *mockMembershipStore
	tc          tenant.Context
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	orgID := uuid.Must(uuid.NewV7())
	userID := uuid.Must(uuid.NewV7())
	tc := tenant.MustContext(orgID.String(), userID.String())

	env := &testEnv{
		runner:      &mockRunner{},
		tickets:     newMockTicketStore(),
		comments:    &mockCommentStore{},
		orgs:        &mockOrganizationStore{},
		memberships: &mockMembershipStore{},
		tc:          tc,
	}

	srv := NewServer(env.runner, Stores{
		Organizations: env.orgs,
		Memberships:   env.memberships,
		Tickets:       env.tickets,
		Comments:      env.comments,
	})

	env.server = httptest.NewServer(srv.Handler(zerolog.Nop(), withTenant(tc)))
	t.Cleanup(env.server.Close)

	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req, err := http.NewRequest(method, e.server.URL+path, reqBody)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestTicketWorkflow(t *testing.T) {
	env := newTestEnv(t)

	// 1. Create a ticket
	resp := env.do(t, http.MethodPost, "/v1/tickets", map[string]any{
		"subject":  "Printer on fire",
		"body":     "It is actually on fire.",
		"priority": "urgent",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	created := decodeJSON[ticketResponse](t, resp)
	require.NotEmpty(t, created.TicketID)
	require.Equal(t, env.tc.OrgID().String(), created.OrgID)
	require.Equal(t, env.tc.UserID().String(), created.RequesterID)
	require.Equal(t, models.TicketStatusOpen, created.Status)
	require.Equal(t, models.TicketPriorityUrgent, created.Priority)

	// 2. Get it back
	resp = env.do(t, http.MethodGet, "/v1/tickets/"+created.TicketID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	fetched := decodeJSON[ticketResponse](t, resp)
	require.Equal(t, created.TicketID, fetched.TicketID)
	require.Equal(t, "Printer on fire", fetched.Subject)

	// 3. List includes it
	resp = env.do(t, http.MethodGet, "/v1/tickets", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	listed := decodeJSON[struct {
		Tickets []ticketResponse `json:"tickets"`
	}](t, resp)
	require.Len(t, listed.Tickets, 1)

	// 4. Update status
	resp = env.do(t, http.MethodPatch, "/v1/tickets/"+created.TicketID, map[string]any{
		"status": "solved",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decodeJSON[ticketResponse](t, resp)
	require.Equal(t, models.TicketStatusSolved, updated.Status)
	require.Equal(t, "Printer on fire", updated.Subject)

	// 5. Comment on it
	resp = env.do(t, http.MethodPost, "/v1/tickets/"+created.TicketID+"/comments", map[string]any{
		"body": "Extinguished, closing.",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	comment := decodeJSON[commentResponse](t, resp)
	require.Equal(t, created.TicketID, comment.TicketID)
	require.Equal(t, env.tc.UserID().String(), comment.AuthorID)

	resp = env.do(t, http.MethodGet, "/v1/tickets/"+created.TicketID+"/comments", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	thread := decodeJSON[struct {
		Comments []commentResponse `json:"comments"`
	}](t, resp)
	require.Len(t, thread.Comments, 1)

	// 6. Stats reflect the ticket
	resp = env.do(t, http.MethodGet, "/v1/tickets/stats", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stats := decodeJSON[struct {
		Counts []statusCountResponse `json:"counts"`
	}](t, resp)
	require.Len(t, stats.Counts, 1)
	require.Equal(t, models.TicketStatusSolved, stats.Counts[0].Status)
	require.Equal(t, int64(1), stats.Counts[0].Count)

	// 7. Delete and verify gone
	resp = env.do(t, http.MethodDelete, "/v1/tickets/"+created.TicketID, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, http.MethodGet, "/v1/tickets/"+created.TicketID, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestCreateTicket_validation(t *testing.T) {
	tests := []struct {
		name string
		body map[string]any
	}{
		{
			name: "missing subject",
			body: map[string]any{"body": "no subject"},
		},
		{
			name: "unknown priority",
			body: map[string]any{"subject": "s", "priority": "catastrophic"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			resp := env.do(t, http.MethodPost, "/v1/tickets", tt.body)
			resp.Body.Close()
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
			// Validation failures never open a unit of work
			require.Zero(t, env.runner.runCount)
		})
	}
}

func TestCreateTicket_requiresActingUser(t *testing.T) {
	env := newTestEnv(t)

	// Rebuild the server with a system-actor context (no user)
	systemTC := tenant.MustContext(env.tc.OrgID().String(), "")
	srv := NewServer(env.runner, Stores{
		Organizations: env.orgs,
		Memberships:   env.memberships,
		Tickets:       env.tickets,
		Comments:      env.comments,
	})
	ts := httptest.NewServer(srv.Handler(zerolog.Nop(), withTenant(systemTC)))
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/v1/tickets", "application/json",
		bytes.NewBufferString(`{"subject":"s"}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetTicket_invalidID(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/v1/tickets/not-a-uuid", nil)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Zero(t, env.runner.runCount)
}

func TestGetTicket_notFound(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/v1/tickets/"+uuid.Must(uuid.NewV7()).String(), nil)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateTicket_rowSecurityRejectionAnswersNotFound(t *testing.T) {
	env := newTestEnv(t)
	env.tickets.createErr = fmt.Errorf("%w: new row violates policy", store.ErrRowSecurityViolation)

	resp := env.do(t, http.MethodPost, "/v1/tickets", map[string]any{"subject": "s"})
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateTicket_workErrorAnswersInternal(t *testing.T) {
	env := newTestEnv(t)
	env.tickets.createErr = errors.New("connection reset")

	resp := env.do(t, http.MethodPost, "/v1/tickets", map[string]any{"subject": "s"})
	resp.Body.Close()
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestListTickets_filterValidation(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/v1/tickets?status=bogus", nil)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/v1/tickets?limit=0", nil)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListComments_missingTicketAnswersNotFound(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/v1/tickets/"+uuid.Must(uuid.NewV7()).String()+"/comments", nil)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetOrg(t *testing.T) {
	env := newTestEnv(t)
	env.orgs.org = &models.Organization{
		OrgID:     env.tc.OrgID(),
		Name:      "acme",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	resp := env.do(t, http.MethodGet, "/v1/org", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	org := decodeJSON[organizationResponse](t, resp)
	require.Equal(t, env.tc.OrgID().String(), org.OrgID)
	require.Equal(t, "acme", org.Name)
}

func TestListMyMemberships(t *testing.T) {
	env := newTestEnv(t)

	otherOrg := uuid.Must(uuid.NewV7())
	env.memberships.mine = []*models.Membership{
		{
			MembershipID: uuid.Must(uuid.NewV7()),
			OrgID:        env.tc.OrgID(),
			UserID:       env.tc.UserID(),
			Role:         models.RoleAdmin,
		},
		{
			MembershipID: uuid.Must(uuid.NewV7()),
			OrgID:        otherOrg,
			UserID:       env.tc.UserID(),
			Role:         models.RoleViewer,
		},
	}

	resp := env.do(t, http.MethodGet, "/v1/memberships/mine", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	mine := decodeJSON[struct {
		Memberships []membershipResponse `json:"memberships"`
	}](t, resp)
	require.Len(t, mine.Memberships, 2)
}

func TestHealthEndpointNeedsNoAuth(t *testing.T) {
	srv := NewServer(&mockRunner{}, Stores{})

	// The authn middleware rejects everything; health must not pass through it
	deny := func(http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
		})
	}

	ts := httptest.NewServer(srv.Handler(zerolog.Nop(), deny))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp2, err := http.Get(ts.URL + "/v1/tickets")
	require.NoError(t, err)
	defer resp2.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp2.StatusCode)
}

func TestHandlerWithoutTenantContextAnswersInternal(t *testing.T) {
	srv := NewServer(&mockRunner{}, Stores{})

	// A pass-through authn that attaches nothing
	passthrough := func(next http.Handler) http.Handler { return next }

	ts := httptest.NewServer(srv.Handler(zerolog.Nop(), passthrough))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/v1/tickets")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
