package postgres

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/ehsan18t/insight-desk-sub000/internal/telemetry"
	"github.com/ehsan18t/insight-desk-sub000/internal/tenant"
)

// Outcomes recorded by the unit-of-work audit hook.
const (
	outcomeCommitted   = "committed"
	outcomeRolledBack  = "rolled_back"
	outcomeScopeFailed = "scope_failed"
)

// auditUnit emits the per-unit audit record: one log event plus the matching
// metric samples. The record carries identifiers, outcome, and duration only,
// never business payloads.
func auditUnit(ctx context.Context, tc tenant.Context, admin bool, outcome string, elapsed time.Duration) {
	m := telemetry.GetMetrics()
	attrs := metric.WithAttributes(
		attribute.String("outcome", outcome),
		attribute.Bool("admin", admin),
	)
	m.UnitsTotal.Add(ctx, 1, attrs)
	m.UnitDuration.Record(ctx, float64(elapsed.Nanoseconds())/1e6, attrs)
	if outcome == outcomeScopeFailed {
		m.ScopeFailuresTotal.Add(ctx, 1, metric.WithAttributes(attribute.Bool("admin", admin)))
	}

	evt := log.Info()
	if outcome != outcomeCommitted {
		evt = log.Warn()
	}
	if admin {
		evt = evt.Bool("admin", true)
	} else {
		evt = evt.Str("org_id", tc.OrgID().String())
		if tc.HasUser() {
			evt = evt.Str("user_id", tc.UserID().String())
		}
	}

	evt.
		Str("outcome", outcome).
		Dur("duration", elapsed).
		Msg("Unit of work finished")
}
