package participant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	database "github.com/FACorreiaa/go-evently-api/app/db"
	"github.com/FACorreiaa/go-evently-api/app/observability/metrics"
	"github.com/FACorreiaa/go-evently-api/internal/types"
)

var _ ParticipantRepo = (*PostgresParticipantRepo)(nil)

type ParticipantRepo interface {
	List(ctx context.Context) ([]types.Participant, error)
	GetByID(ctx context.Context, id int64) (*types.Participant, error)
	Create(ctx context.Context, in types.ParticipantInput) (*types.Participant, error)
	Update(ctx context.Context, id int64, in types.ParticipantInput) (*types.Participant, error)
	Delete(ctx context.Context, id int64) error
}

type PostgresParticipantRepo struct {
	logger *slog.Logger
	pgpool database.DBTX
}

func NewPostgresParticipantRepo(pgpool database.DBTX, logger *slog.Logger) *PostgresParticipantRepo {
	return &PostgresParticipantRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

const participantColumns = `id, COALESCE(name, ''), COALESCE(email, '')`

func (r *PostgresParticipantRepo) List(ctx context.Context) ([]types.Participant, error) {
	ctx, span := otel.Tracer("ParticipantRepo").Start(ctx, "List", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "participants"),
	))
	defer span.End()
	start := time.Now()

	rows, err := r.pgpool.Query(ctx, "SELECT "+participantColumns+" FROM participants ORDER BY id")
	if err != nil {
		metrics.Get().ObserveQuery(ctx, "participants.list", start, err)
		r.logger.ErrorContext(ctx, "Failed to query participants", slog.String("method", "List"), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error listing participants: %w", err)
	}
	defer rows.Close()

	participants := []types.Participant{}
	for rows.Next() {
		var p types.Participant
		if err = rows.Scan(&p.ID, &p.Name, &p.Email); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("database error scanning participant: %w", err)
		}
		participants = append(participants, p)
	}
	err = rows.Err()
	metrics.Get().ObserveQuery(ctx, "participants.list", start, err)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("database error iterating participants: %w", err)
	}
	return participants, nil
}

func (r *PostgresParticipantRepo) GetByID(ctx context.Context, id int64) (*types.Participant, error) {
	ctx, span := otel.Tracer("ParticipantRepo").Start(ctx, "GetByID", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.Int64("participant.id", id),
	))
	defer span.End()
	start := time.Now()

	var p types.Participant
	err := r.pgpool.QueryRow(ctx, "SELECT "+participantColumns+" FROM participants WHERE id = $1", id).
		Scan(&p.ID, &p.Name, &p.Email)
	metrics.Get().ObserveQuery(ctx, "participants.get", start, database.IgnoreNoRows(err))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("participant %d: %w", id, types.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error fetching participant: %w", err)
	}
	return &p, nil
}

func (r *PostgresParticipantRepo) Create(ctx context.Context, in types.ParticipantInput) (*types.Participant, error) {
	ctx, span := otel.Tracer("ParticipantRepo").Start(ctx, "Create", trace.WithAttributes(semconv.DBSystemPostgreSQL))
	defer span.End()
	start := time.Now()

	var p types.Participant
	err := r.pgpool.QueryRow(ctx,
		"INSERT INTO participants (name, email) VALUES ($1, $2) RETURNING "+participantColumns,
		in.Name, in.Email,
	).Scan(&p.ID, &p.Name, &p.Email)
	metrics.Get().ObserveQuery(ctx, "participants.insert", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert participant", slog.String("method", "Create"), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB insert failed")
		return nil, fmt.Errorf("database error creating participant: %w", err)
	}
	return &p, nil
}

func (r *PostgresParticipantRepo) Update(ctx context.Context, id int64, in types.ParticipantInput) (*types.Participant, error) {
	ctx, span := otel.Tracer("ParticipantRepo").Start(ctx, "Update", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.Int64("participant.id", id),
	))
	defer span.End()
	start := time.Now()

	var p types.Participant
	err := r.pgpool.QueryRow(ctx,
		"UPDATE participants SET name = $1, email = $2 WHERE id = $3 RETURNING "+participantColumns,
		in.Name, in.Email, id,
	).Scan(&p.ID, &p.Name, &p.Email)
	metrics.Get().ObserveQuery(ctx, "participants.update", start, database.IgnoreNoRows(err))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("participant %d: %w", id, types.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Failed to update participant", slog.String("method", "Update"), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB update failed")
		return nil, fmt.Errorf("database error updating participant: %w", err)
	}
	return &p, nil
}

// Delete leaves association rows in place.
func (r *PostgresParticipantRepo) Delete(ctx context.Context, id int64) error {
	ctx, span := otel.Tracer("ParticipantRepo").Start(ctx, "Delete", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.Int64("participant.id", id),
	))
	defer span.End()
	start := time.Now()

	tag, err := r.pgpool.Exec(ctx, "DELETE FROM participants WHERE id = $1", id)
	metrics.Get().ObserveQuery(ctx, "participants.delete", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to delete participant", slog.String("method", "Delete"), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB delete failed")
		return fmt.Errorf("database error deleting participant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("participant %d: %w", id, types.ErrNotFound)
	}
	return nil
}
