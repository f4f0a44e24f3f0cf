package metrics

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/FACorreiaa/go-evently-api"

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	AuthRequestsTotal       metric.Int64Counter
	AuthDurationSeconds     metric.Float64Histogram
	DbQueryDurationSeconds  metric.Float64Histogram
	DbQueryErrorsTotal      metric.Int64Counter
	NotificationsTotal      metric.Int64Counter
	NotificationErrorsTotal metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	initErr    error
	once       sync.Once
)

// InitAppMetrics creates the instruments from the global MeterProvider. Only
// the first call does any work. Instruments created before the provider is
// installed are delegated to it once it is.
func InitAppMetrics() error {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter(meterName)
		m := &AppMetrics{}
		var errs [6]error

		m.AuthRequestsTotal, errs[0] = meter.Int64Counter(
			"auth_requests_total",
			metric.WithDescription("Register and login attempts by operation and outcome"),
			metric.WithUnit("{request}"),
		)
		m.AuthDurationSeconds, errs[1] = meter.Float64Histogram(
			"auth_duration_seconds",
			metric.WithDescription("Duration of register and login calls"),
			metric.WithUnit("s"),
		)
		m.DbQueryDurationSeconds, errs[2] = meter.Float64Histogram(
			"db_query_duration_seconds",
			metric.WithDescription("Duration of database queries in seconds"),
			metric.WithUnit("s"),
		)
		m.DbQueryErrorsTotal, errs[3] = meter.Int64Counter(
			"db_query_errors_total",
			metric.WithDescription("Total number of database query errors"),
			metric.WithUnit("{error}"),
		)
		m.NotificationsTotal, errs[4] = meter.Int64Counter(
			"notifications_published_total",
			metric.WithDescription("Domain notifications handed to the publisher"),
			metric.WithUnit("{message}"),
		)
		m.NotificationErrorsTotal, errs[5] = meter.Int64Counter(
			"notification_errors_total",
			metric.WithDescription("Domain notifications the publisher rejected"),
			metric.WithUnit("{error}"),
		)

		initErr = errors.Join(errs[:]...)
		appMetrics = m
	})
	return initErr
}

// Get returns the shared instruments, creating them on first use.
func Get() *AppMetrics {
	_ = InitAppMetrics()
	return appMetrics
}

// ObserveQuery records the latency of one repository call and counts it as
// an error when err is non-nil.
func (m *AppMetrics) ObserveQuery(ctx context.Context, operation string, start time.Time, err error) {
	attrs := metric.WithAttributes(attribute.String("db.operation", operation))
	m.DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
	if err != nil {
		m.DbQueryErrorsTotal.Add(ctx, 1, attrs)
	}
}

// ObserveAuth records one register or login attempt.
func (m *AppMetrics) ObserveAuth(ctx context.Context, operation, outcome string, start time.Time) {
	attrs := metric.WithAttributes(
		attribute.String("auth.operation", operation),
		attribute.String("auth.outcome", outcome),
	)
	m.AuthRequestsTotal.Add(ctx, 1, attrs)
	m.AuthDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
}
