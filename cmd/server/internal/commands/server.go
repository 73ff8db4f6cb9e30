package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/cors"

	"github.com/ehsan18t/insight-desk-sub000/internal/auth"
	"github.com/ehsan18t/insight-desk-sub000/internal/logger"
	"github.com/ehsan18t/insight-desk-sub000/internal/server"
	postgresstore "github.com/ehsan18t/insight-desk-sub000/internal/store/postgres"
	"github.com/ehsan18t/insight-desk-sub000/internal/telemetry"
)

type ServerCmd struct {
	// Server configuration
	Listen string `help:"HTTP server listen address" default:"0.0.0.0:8080" env:"INSIGHTDESK_LISTEN"`
	Cert   string `help:"path to TLS cert file" default:"" env:"INSIGHTDESK_TLS_CERT"`
	Key    string `help:"path to TLS key file" default:"" env:"INSIGHTDESK_TLS_KEY"`

	// CORS configuration
	CORSOrigins []string `help:"allowed CORS origins for API requests" default:"https://localhost" env:"INSIGHTDESK_CORS_ORIGINS"`

	// Token verification
	JWTSecret string `help:"secret key for HMAC signing of API tokens" env:"INSIGHTDESK_JWT_SECRET"`

	// Suspension gate
	OrgGateTTL time.Duration `help:"how long a suspension lookup result is cached" default:"30s" env:"INSIGHTDESK_ORG_GATE_TTL"`

	// Development and operational modes
	Tracing bool `help:"enable tracing" default:"false" env:"INSIGHTDESK_TRACING"`

	// Store configuration
	Postgres PostgresFlags `embed:"" prefix:"postgres-"`
}

type PostgresFlags struct {
	// Connection Configuration
	ConnString string `help:"PostgreSQL connection string" env:"POSTGRES_CONNECTION_STRING"`

	// Connection Pool Configuration
	MaxConns         int32 `help:"maximum number of connections in pool" default:"20"`
	MinConns         int32 `help:"minimum number of connections in pool" default:"5"`
	MaxConnLifetime  int32 `help:"maximum connection lifetime in seconds" default:"3600"`
	MaxConnIdleTime  int32 `help:"maximum connection idle time in seconds" default:"1800"`
	PingRetryTimeout int32 `help:"how long to retry the startup ping in seconds" default:"30"`

	// Migration Configuration
	AutoMigrate bool `help:"run database migrations on startup" default:"false" env:"INSIGHTDESK_POSTGRES_AUTO_MIGRATE"`
}

func (s *PostgresFlags) Validate() error {
	if s.ConnString == "" {
		return errors.New("PostgreSQL connection string is required (--postgres-conn-string or POSTGRES_CONNECTION_STRING)")
	}
	return nil
}

func (c *ServerCmd) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT secret is required (--jwt-secret or INSIGHTDESK_JWT_SECRET)")
	}
	if len(c.JWTSecret) < 32 {
		return errors.New("JWT secret must be at least 32 bytes (256 bits) for HMAC-SHA256")
	}
	return nil
}

func (c *ServerCmd) Run(globals *Globals) error {
	log := logger.Setup(globals.Debug)
	ctx := context.Background()

	log.Info().Str("version", globals.Version).Bool("debug", globals.Debug).Msg("Starting server")

	// Setup telemetry if enabled
	if c.Tracing {
		log.Info().Msg("Tracing is enabled")
		shutdown, err := telemetry.InitTelemetry(ctx, "insight-desk-server", globals.Version)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize telemetry, continuing without metrics")
			shutdown = func(ctx context.Context) error { return nil }
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("Failed to shutdown telemetry")
			}
		}()
	}

	// Create shared connection pool
	poolCfg := &postgresstore.PoolConfig{
		ConnString:       c.Postgres.ConnString,
		MaxConns:         c.Postgres.MaxConns,
		MinConns:         c.Postgres.MinConns,
		MaxConnLifetime:  c.Postgres.MaxConnLifetime,
		MaxConnIdleTime:  c.Postgres.MaxConnIdleTime,
		PingRetryTimeout: c.Postgres.PingRetryTimeout,
	}
	pool, err := postgresstore.NewPool(ctx, poolCfg)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	// Run migrations if enabled
	if c.Postgres.AutoMigrate {
		if err := postgresstore.RunMigrations(ctx, pool); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		log.Info().Msg("Database migrations completed")
	}

	// Every request runs through the scoped runner; the admin accessor is
	// never constructed here.
	scoped := postgresstore.NewScopedDB(pool)

	verifier, err := auth.NewVerifier(c.JWTSecret)
	if err != nil {
		return fmt.Errorf("failed to create token verifier: %w", err)
	}

	gate := auth.NewOrgGate(func(ctx context.Context, orgID uuid.UUID) (bool, error) {
		return postgresstore.OrgSuspended(ctx, pool, orgID)
	}, c.OrgGateTTL)

	srv := server.NewServer(scoped, server.Stores{
		Organizations: postgresstore.NewOrganizationStore(),
		Memberships:   postgresstore.NewMembershipStore(),
		Tickets:       postgresstore.NewTicketStore(),
		Comments:      postgresstore.NewCommentStore(),
	})

	authn := auth.Middleware(verifier, gate)
	handler := withCORS(c.CORSOrigins, srv.Handler(log, authn))

	httpServer := configureHTTPServer(c.Listen, handler)

	// Serve TLS when a certificate pair is supplied, plain HTTP otherwise
	if c.Cert != "" || c.Key != "" {
		if _, err := os.Stat(c.Cert); err != nil {
			return fmt.Errorf("TLS certificate not found at %s: %w", c.Cert, err)
		}
		if _, err := os.Stat(c.Key); err != nil {
			return fmt.Errorf("TLS key not found at %s: %w", c.Key, err)
		}
		log.Info().Str("addr", c.Listen).Msg("Starting HTTPS server")
		return httpServer.ListenAndServeTLS(c.Cert, c.Key)
	}

	log.Info().Str("addr", c.Listen).Msg("Starting HTTP server")
	return httpServer.ListenAndServe()
}

// withCORS adds CORS support to the API handler.
func withCORS(allowedOrigins []string, h http.Handler) http.Handler {
	middleware := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})
	return middleware.Handler(h)
}
