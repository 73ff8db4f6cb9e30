package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"gopkg.in/yaml.v3"

	"github.com/ehsan18t/insight-desk-sub000/internal/logger"
	"github.com/ehsan18t/insight-desk-sub000/internal/models"
	"github.com/ehsan18t/insight-desk-sub000/internal/store"
	postgresstore "github.com/ehsan18t/insight-desk-sub000/internal/store/postgres"
)

type SeedCmd struct {
	File string `help:"Path to the YAML fixtures file" required:"" type:"existingfile"`

	Postgres PostgresFlags `embed:"" prefix:"postgres-"`
}

type seedFile struct {
	Organizations []seedOrganization `yaml:"organizations"`
}

type seedOrganization struct {
	Name    string       `yaml:"name"`
	Members []seedMember `yaml:"members"`
	Tickets []seedTicket `yaml:"tickets"`
}

type seedMember struct {
	Email string `yaml:"email"`
	Name  string `yaml:"name"`
	Role  string `yaml:"role"`
}

type seedTicket struct {
	Subject   string        `yaml:"subject"`
	Body      string        `yaml:"body"`
	Status    string        `yaml:"status"`
	Priority  string        `yaml:"priority"`
	Requester string        `yaml:"requester"`
	Comments  []seedComment `yaml:"comments"`
}

type seedComment struct {
	Author   string `yaml:"author"`
	Body     string `yaml:"body"`
	Internal bool   `yaml:"internal"`
}

// validate checks the fixture file before any row is written, so a bad file
// never leaves a half-applied seed behind.
func (f *seedFile) validate() error {
	for _, org := range f.Organizations {
		if org.Name == "" {
			return errors.New("organization name is required")
		}

		members := make(map[string]bool, len(org.Members))
		for _, m := range org.Members {
			if m.Email == "" {
				return fmt.Errorf("organization %q: member email is required", org.Name)
			}
			if m.Role != "" && !models.ValidRole(m.Role) {
				return fmt.Errorf("organization %q: unknown role %q for %s", org.Name, m.Role, m.Email)
			}
			members[m.Email] = true
		}

		for _, t := range org.Tickets {
			if t.Subject == "" {
				return fmt.Errorf("organization %q: ticket subject is required", org.Name)
			}
			if t.Status != "" && !models.ValidTicketStatus(t.Status) {
				return fmt.Errorf("organization %q: unknown status %q", org.Name, t.Status)
			}
			if t.Priority != "" && !models.ValidTicketPriority(t.Priority) {
				return fmt.Errorf("organization %q: unknown priority %q", org.Name, t.Priority)
			}
			if !members[t.Requester] {
				return fmt.Errorf("organization %q: ticket requester %q is not a member", org.Name, t.Requester)
			}
			for _, c := range t.Comments {
				if !members[c.Author] {
					return fmt.Errorf("organization %q: comment author %q is not a member", org.Name, c.Author)
				}
			}
		}
	}
	return nil
}

// Run loads the fixture file inside one unscoped unit of work; either the
// whole file applies or none of it does.
func (s *SeedCmd) Run(ctx context.Context, globals *Globals) error {
	log := logger.Setup(globals.Debug)

	data, err := os.ReadFile(s.File)
	if err != nil {
		return fmt.Errorf("failed to read fixtures file: %w", err)
	}

	var fixtures seedFile
	if err := yaml.Unmarshal(data, &fixtures); err != nil {
		return fmt.Errorf("failed to parse fixtures file: %w", err)
	}
	if err := fixtures.validate(); err != nil {
		return fmt.Errorf("invalid fixtures file: %w", err)
	}

	pool, err := openPool(ctx, s.Postgres)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	admin := postgresstore.NewAdminDB(pool)
	orgs := postgresstore.NewOrganizationStore()
	users := postgresstore.NewUserStore()
	memberships := postgresstore.NewMembershipStore()
	tickets := postgresstore.NewTicketStore()
	comments := postgresstore.NewCommentStore()

	var orgCount, userCount, ticketCount, commentCount int

	err = admin.RunUnscoped(ctx, func(tx pgx.Tx) error {
		// Users are global; reuse them across organizations by email.
		userIDs := make(map[string]uuid.UUID)
		now := time.Now()

		ensureUser := func(email, name string) (uuid.UUID, error) {
			if id, ok := userIDs[email]; ok {
				return id, nil
			}

			existing, err := users.GetByEmail(ctx, tx, email)
			if err == nil {
				userIDs[email] = existing.UserID
				return existing.UserID, nil
			}
			if !errors.Is(err, store.ErrUserNotFound) {
				return uuid.Nil, err
			}

			user := &models.User{
				UserID:    uuid.Must(uuid.NewV7()),
				Email:     email,
				Name:      name,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := users.Create(ctx, tx, user); err != nil {
				return uuid.Nil, err
			}
			userIDs[email] = user.UserID
			userCount++
			return user.UserID, nil
		}

		for _, seedOrg := range fixtures.Organizations {
			org := &models.Organization{
				OrgID:     uuid.Must(uuid.NewV7()),
				Name:      seedOrg.Name,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := orgs.Create(ctx, tx, org); err != nil {
				return err
			}
			orgCount++

			for _, m := range seedOrg.Members {
				userID, err := ensureUser(m.Email, m.Name)
				if err != nil {
					return err
				}

				role := m.Role
				if role == "" {
					role = models.RoleAgent
				}
				err = memberships.Create(ctx, tx, &models.Membership{
					MembershipID: uuid.Must(uuid.NewV7()),
					OrgID:        org.OrgID,
					UserID:       userID,
					Role:         role,
					CreatedAt:    now,
					UpdatedAt:    now,
				})
				if err != nil {
					return err
				}
			}

			for _, t := range seedOrg.Tickets {
				status := t.Status
				if status == "" {
					status = models.TicketStatusOpen
				}
				priority := t.Priority
				if priority == "" {
					priority = models.TicketPriorityNormal
				}

				ticket := &models.Ticket{
					TicketID:    uuid.Must(uuid.NewV7()),
					OrgID:       org.OrgID,
					RequesterID: userIDs[t.Requester],
					Subject:     t.Subject,
					Body:        t.Body,
					Status:      status,
					Priority:    priority,
					CreatedAt:   now,
					UpdatedAt:   now,
				}
				if err := tickets.Create(ctx, tx, ticket); err != nil {
					return err
				}
				ticketCount++

				for _, c := range t.Comments {
					err := comments.Create(ctx, tx, &models.Comment{
						CommentID: uuid.Must(uuid.NewV7()),
						OrgID:     org.OrgID,
						TicketID:  ticket.TicketID,
						AuthorID:  userIDs[c.Author],
						Body:      c.Body,
						Internal:  c.Internal,
						CreatedAt: now,
					})
					if err != nil {
						return err
					}
					commentCount++
				}
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to apply fixtures: %w", err)
	}

	log.Info().
		Int("organizations", orgCount).
		Int("users", userCount).
		Int("tickets", ticketCount).
		Int("comments", commentCount).
		Msg("Seed completed")

	return nil
}
