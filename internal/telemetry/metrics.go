package telemetry

import (
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const (
	meterName = "github.com/ehsan18t/insight-desk-sub000"
)

// Metrics holds all the OpenTelemetry metric instruments
type Metrics struct {
	// Unit-of-work metrics
	UnitsTotal              metric.Int64Counter
	UnitDuration            metric.Float64Histogram
	ScopeFailuresTotal      metric.Int64Counter
	RowSecurityRejectsTotal metric.Int64Counter

	// Request metrics
	RequestsTotal   metric.Int64Counter
	RequestDuration metric.Float64Histogram

	// Auth metrics
	AuthRejectsTotal    metric.Int64Counter
	OrgGateLookupsTotal metric.Int64Counter
}

var (
	once    sync.Once
	metrics *Metrics
)

// GetMetrics returns the singleton Metrics instance, initializing it if necessary
func GetMetrics() *Metrics {
	once.Do(func() {
		metrics = initMetrics()
	})
	return metrics
}

// initMetrics creates and registers all metric instruments
func initMetrics() *Metrics {
	meter := otel.GetMeterProvider().Meter(meterName)

	m := &Metrics{}

	// Unit-of-work metrics
	m.UnitsTotal, _ = meter.Int64Counter(
		"insightdesk.units.total",
		metric.WithDescription("Total number of units of work, by outcome"),
		metric.WithUnit("{unit}"),
	)

	m.UnitDuration, _ = meter.Float64Histogram(
		"insightdesk.units.duration",
		metric.WithDescription("Duration of units of work from begin to commit or rollback"),
		metric.WithUnit("ms"),
	)

	m.ScopeFailuresTotal, _ = meter.Int64Counter(
		"insightdesk.units.scope_failures.total",
		metric.WithDescription("Total number of units whose tenant settings could not be applied"),
		metric.WithUnit("{unit}"),
	)

	m.RowSecurityRejectsTotal, _ = meter.Int64Counter(
		"insightdesk.units.row_security_rejects.total",
		metric.WithDescription("Total number of writes rejected by row security policies"),
		metric.WithUnit("{write}"),
	)

	// Request metrics
	m.RequestsTotal, _ = meter.Int64Counter(
		"insightdesk.http.requests.total",
		metric.WithDescription("Total number of HTTP requests, by status class"),
		metric.WithUnit("{request}"),
	)

	m.RequestDuration, _ = meter.Float64Histogram(
		"insightdesk.http.request.duration",
		metric.WithDescription("Duration of HTTP request handling"),
		metric.WithUnit("ms"),
	)

	// Auth metrics
	m.AuthRejectsTotal, _ = meter.Int64Counter(
		"insightdesk.auth.rejects.total",
		metric.WithDescription("Total number of requests rejected before reaching a unit of work"),
		metric.WithUnit("{request}"),
	)

	m.OrgGateLookupsTotal, _ = meter.Int64Counter(
		"insightdesk.orggate.lookups.total",
		metric.WithDescription("Total number of organization activation lookups, by result"),
		metric.WithUnit("{lookup}"),
	)

	return m
}
