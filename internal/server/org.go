package server

import (
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ehsan18t/insight-desk-sub000/internal/models"
)

type organizationResponse struct {
	OrgID     string    `json:"org_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Server) getOrg(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantContext(w, r)
	if !ok {
		return
	}

	var org *models.Organization
	err := s.db.RunScoped(r.Context(), tc, func(tx pgx.Tx) error {
		var err error
		org, err = s.stores.Organizations.Get(r.Context(), tx, tc.OrgID())
		return err
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, organizationResponse{
		OrgID:     org.OrgID.String(),
		Name:      org.Name,
		CreatedAt: org.CreatedAt,
		UpdatedAt: org.UpdatedAt,
	})
}

type membershipResponse struct {
	MembershipID string    `json:"membership_id"`
	OrgID        string    `json:"org_id"`
	UserID       string    `json:"user_id"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// listMyMemberships returns the acting user's memberships across every
// organization they belong to. This is the one read that crosses the
// organization boundary; the self-read policy narrows it to the user's own
// rows.
func (s *Server) listMyMemberships(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantContext(w, r)
	if !ok {
		return
	}
	if !tc.HasUser() {
		http.Error(w, "acting user required", http.StatusBadRequest)
		return
	}

	var memberships []*models.Membership
	err := s.db.RunScoped(r.Context(), tc, func(tx pgx.Tx) error {
		var err error
		memberships, err = s.stores.Memberships.ListMine(r.Context(), tx, tc.UserID())
		return err
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	resp := make([]membershipResponse, 0, len(memberships))
	for _, m := range memberships {
		resp = append(resp, membershipResponse{
			MembershipID: m.MembershipID.String(),
			OrgID:        m.OrgID.String(),
			UserID:       m.UserID.String(),
			Role:         m.Role,
			CreatedAt:    m.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"memberships": resp})
}
