package statistics

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	database "github.com/FACorreiaa/go-evently-api/app/db"
	"github.com/FACorreiaa/go-evently-api/app/observability/metrics"
	"github.com/FACorreiaa/go-evently-api/internal/types"
)

var _ StatisticsRepo = (*PostgresStatisticsRepo)(nil)

type StatisticsRepo interface {
	CountByType(ctx context.Context) ([]types.Bucket, error)
	CountByLocation(ctx context.Context) ([]types.Bucket, error)
	CountByMonth(ctx context.Context) ([]types.Bucket, error)
}

type PostgresStatisticsRepo struct {
	logger *slog.Logger
	pgpool database.DBTX
}

func NewPostgresStatisticsRepo(pgpool database.DBTX, logger *slog.Logger) *PostgresStatisticsRepo {
	return &PostgresStatisticsRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

const (
	byTypeQuery = `SELECT COALESCE(type, '') AS label, COUNT(*) FROM events GROUP BY label`

	byLocationQuery = `SELECT COALESCE(location, '') AS label, COUNT(*) FROM events GROUP BY label`

	byMonthQuery = `
		SELECT to_char(date, 'YYYY-MM') AS label, COUNT(*)
		FROM events
		WHERE date IS NOT NULL
		GROUP BY label`
)

func (r *PostgresStatisticsRepo) CountByType(ctx context.Context) ([]types.Bucket, error) {
	return r.buckets(ctx, "CountByType", byTypeQuery)
}

func (r *PostgresStatisticsRepo) CountByLocation(ctx context.Context) ([]types.Bucket, error) {
	return r.buckets(ctx, "CountByLocation", byLocationQuery)
}

func (r *PostgresStatisticsRepo) CountByMonth(ctx context.Context) ([]types.Bucket, error) {
	return r.buckets(ctx, "CountByMonth", byMonthQuery)
}

func (r *PostgresStatisticsRepo) buckets(ctx context.Context, name, query string) ([]types.Bucket, error) {
	ctx, span := otel.Tracer("StatisticsRepo").Start(ctx, name, trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "events"),
	))
	defer span.End()
	start := time.Now()

	rows, err := r.pgpool.Query(ctx, query)
	if err != nil {
		metrics.Get().ObserveQuery(ctx, "statistics."+name, start, err)
		r.logger.ErrorContext(ctx, "Failed to query statistics", slog.String("method", name), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error counting events: %w", err)
	}
	defer rows.Close()

	buckets := []types.Bucket{}
	for rows.Next() {
		var b types.Bucket
		if err = rows.Scan(&b.Label, &b.Count); err != nil {
			return nil, fmt.Errorf("database error scanning bucket: %w", err)
		}
		buckets = append(buckets, b)
	}
	err = rows.Err()
	metrics.Get().ObserveQuery(ctx, "statistics."+name, start, err)
	if err != nil {
		return nil, fmt.Errorf("database error iterating buckets: %w", err)
	}
	return buckets, nil
}
