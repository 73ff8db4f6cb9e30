package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/ehsan18t/insight-desk-sub000/internal/telemetry"
)

// orgGateCacheSize bounds the suspension verdict cache.
const orgGateCacheSize = 1024

// SuspensionLookup answers whether an organization is suspended, with
// unknown organizations reading as suspended. The production implementation
// calls app_org_suspended, the database function that may read past row
// security for this one question.
type SuspensionLookup func(ctx context.Context, orgID uuid.UUID) (bool, error)

// OrgGate refuses requests for suspended organizations before any unit of
// work opens. Verdicts are cached with a TTL, so a fresh suspension takes
// effect within one TTL at worst. Lookup failures deny; the gate fails
// closed.
type OrgGate struct {
	lookup SuspensionLookup
	cache  *expirable.LRU[uuid.UUID, bool]
}

// NewOrgGate creates a gate around lookup with the given verdict TTL.
func NewOrgGate(lookup SuspensionLookup, ttl time.Duration) *OrgGate {
	return &OrgGate{
		lookup: lookup,
		cache:  expirable.NewLRU[uuid.UUID, bool](orgGateCacheSize, nil, ttl),
	}
}

// Allow reports whether requests for orgID may proceed.
func (g *OrgGate) Allow(ctx context.Context, orgID uuid.UUID) (bool, error) {
	m := telemetry.GetMetrics()

	if suspended, ok := g.cache.Get(orgID); ok {
		m.OrgGateLookupsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("result", "hit")))
		return !suspended, nil
	}

	suspended, err := g.lookup(ctx, orgID)
	if err != nil {
		m.OrgGateLookupsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("result", "error")))
		return false, err
	}

	g.cache.Add(orgID, suspended)
	m.OrgGateLookupsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("result", "miss")))

	return !suspended, nil
}
