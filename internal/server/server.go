package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/ehsan18t/insight-desk-sub000/internal/logger"
	"github.com/ehsan18t/insight-desk-sub000/internal/store"
)

// Stores bundles the per-entity stores the handlers operate through. Every
// method runs on a transaction handed out by the scoped runner.
type Stores struct {
	Organizations store.OrganizationStore
	Memberships   store.MembershipStore
	Tickets       store.TicketStore
	Comments      store.CommentStore
}

// Server wraps the HTTP API. It holds only the scoped runner: every request
// runs inside a tenant-confined unit of work, and no admin accessor is
// reachable from here.
type Server struct {
	db     store.ScopedRunner
	stores Stores
}

// NewServer creates a new server with the given scoped runner and stores
func NewServer(db store.ScopedRunner, stores Stores) *Server {
	return &Server{
		db:     db,
		stores: stores,
	}
}

// Handler returns the HTTP handler for the server. The authn middleware
// resolves the tenant context for every /v1 route; health stays open for the
// load balancer.
func (s *Server) Handler(log zerolog.Logger, authn func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(logger.Requests(log))

	// Health check endpoint for load balancer
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Group(func(r chi.Router) {
		r.Use(authn)

		r.Route("/v1", func(r chi.Router) {
			r.Get("/org", s.getOrg)
			r.Get("/memberships/mine", s.listMyMemberships)

			r.Route("/tickets", func(r chi.Router) {
				r.Post("/", s.createTicket)
				r.Get("/", s.listTickets)
				r.Get("/stats", s.ticketStats)

				r.Route("/{ticketID}", func(r chi.Router) {
					r.Get("/", s.getTicket)
					r.Patch("/", s.updateTicket)
					r.Delete("/", s.deleteTicket)
					r.Get("/comments", s.listComments)
					r.Post("/comments", s.createComment)
				})
			})
		})
	})

	return r
}
