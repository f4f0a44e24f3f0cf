package event

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	database "github.com/FACorreiaa/go-evently-api/app/db"
	"github.com/FACorreiaa/go-evently-api/app/observability/metrics"
	"github.com/FACorreiaa/go-evently-api/internal/types"
)

var _ EventRepo = (*PostgresEventRepo)(nil)

type EventRepo interface {
	ListWithParticipants(ctx context.Context) ([]types.EventWithParticipants, error)
	GetByID(ctx context.Context, id int64) (*types.Event, error)
	Create(ctx context.Context, in types.EventInput) (*types.Event, error)
	Update(ctx context.Context, id int64, in types.EventInput) (*types.Event, error)
	Delete(ctx context.Context, id int64) error
}

type PostgresEventRepo struct {
	logger *slog.Logger
	pgpool database.DBTX
}

func NewPostgresEventRepo(pgpool database.DBTX, logger *slog.Logger) *PostgresEventRepo {
	return &PostgresEventRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

const eventColumns = `id, COALESCE(name, ''), date, COALESCE(location, ''), COALESCE(description, ''), COALESCE(type, '')`

const listWithParticipantsQuery = `
	SELECT e.id, COALESCE(e.name, ''), e.date, COALESCE(e.location, ''),
	       COALESCE(e.description, ''), COALESCE(e.type, ''),
	       p.id, p.name, p.email
	FROM events e
	LEFT JOIN event_participants ep ON ep.event_id = e.id
	LEFT JOIN participants p ON p.id = ep.participant_id
	ORDER BY e.date ASC NULLS LAST, e.id ASC, ep.id ASC`

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, semconv.DBSystemPostgreSQL, attribute.String("db.sql.table", "events"))
	return otel.Tracer("EventRepo").Start(ctx, name, trace.WithAttributes(attrs...))
}

func scanEvent(row pgx.Row) (*types.Event, error) {
	var e types.Event
	if err := row.Scan(&e.ID, &e.Name, &e.Date, &e.Location, &e.Description, &e.Type); err != nil {
		return nil, err
	}
	return &e, nil
}

// ListWithParticipants returns every event with its participants nested,
// ordered by date. Associations pointing at missing participants are skipped.
func (r *PostgresEventRepo) ListWithParticipants(ctx context.Context) ([]types.EventWithParticipants, error) {
	ctx, span := startSpan(ctx, "ListWithParticipants")
	defer span.End()
	l := r.logger.With(slog.String("method", "ListWithParticipants"))
	start := time.Now()

	rows, err := r.pgpool.Query(ctx, listWithParticipantsQuery)
	if err != nil {
		metrics.Get().ObserveQuery(ctx, "events.list_with_participants", start, err)
		l.ErrorContext(ctx, "Failed to query events", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error listing events: %w", err)
	}
	defer rows.Close()

	events := []types.EventWithParticipants{}
	for rows.Next() {
		var (
			e      types.EventWithParticipants
			pID    pgtype.Int8
			pName  pgtype.Text
			pEmail pgtype.Text
		)
		if err = rows.Scan(&e.EventID, &e.EventName, &e.Date, &e.Location, &e.Description, &e.Type, &pID, &pName, &pEmail); err != nil {
			metrics.Get().ObserveQuery(ctx, "events.list_with_participants", start, err)
			span.RecordError(err)
			return nil, fmt.Errorf("database error scanning event row: %w", err)
		}

		if n := len(events); n == 0 || events[n-1].EventID != e.EventID {
			e.Participants = []types.Participant{}
			events = append(events, e)
		}
		if pID.Valid {
			last := &events[len(events)-1]
			last.Participants = append(last.Participants, types.Participant{
				ID:    pID.Int64,
				Name:  pName.String,
				Email: pEmail.String,
			})
		}
	}
	err = rows.Err()
	metrics.Get().ObserveQuery(ctx, "events.list_with_participants", start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "row iteration failed")
		return nil, fmt.Errorf("database error iterating events: %w", err)
	}

	span.SetAttributes(attribute.Int("events.count", len(events)))
	span.SetStatus(codes.Ok, "events listed")
	return events, nil
}

func (r *PostgresEventRepo) GetByID(ctx context.Context, id int64) (*types.Event, error) {
	ctx, span := startSpan(ctx, "GetByID", attribute.Int64("event.id", id))
	defer span.End()
	start := time.Now()

	e, err := scanEvent(r.pgpool.QueryRow(ctx, "SELECT "+eventColumns+" FROM events WHERE id = $1", id))
	metrics.Get().ObserveQuery(ctx, "events.get", start, database.IgnoreNoRows(err))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("event %d: %w", id, types.ErrNotFound)
	}
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to fetch event", slog.String("method", "GetByID"), slog.Int64("id", id), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error fetching event: %w", err)
	}
	return e, nil
}

func (r *PostgresEventRepo) Create(ctx context.Context, in types.EventInput) (*types.Event, error) {
	ctx, span := startSpan(ctx, "Create")
	defer span.End()
	start := time.Now()

	e, err := scanEvent(r.pgpool.QueryRow(ctx,
		"INSERT INTO events (name, date, location, description, type) VALUES ($1, $2, $3, $4, $5) RETURNING "+eventColumns,
		in.Name, in.Date, in.Location, in.Description, in.Type,
	))
	metrics.Get().ObserveQuery(ctx, "events.insert", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert event", slog.String("method", "Create"), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB insert failed")
		return nil, fmt.Errorf("database error creating event: %w", err)
	}
	span.SetAttributes(attribute.Int64("event.id", e.ID))
	return e, nil
}

// Update replaces every mutable field of the event.
func (r *PostgresEventRepo) Update(ctx context.Context, id int64, in types.EventInput) (*types.Event, error) {
	ctx, span := startSpan(ctx, "Update", attribute.Int64("event.id", id))
	defer span.End()
	start := time.Now()

	e, err := scanEvent(r.pgpool.QueryRow(ctx,
		"UPDATE events SET name = $1, date = $2, location = $3, description = $4, type = $5 WHERE id = $6 RETURNING "+eventColumns,
		in.Name, in.Date, in.Location, in.Description, in.Type, id,
	))
	metrics.Get().ObserveQuery(ctx, "events.update", start, database.IgnoreNoRows(err))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("event %d: %w", id, types.ErrNotFound)
	}
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update event", slog.String("method", "Update"), slog.Int64("id", id), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB update failed")
		return nil, fmt.Errorf("database error updating event: %w", err)
	}
	return e, nil
}

// Delete leaves association rows in place.
func (r *PostgresEventRepo) Delete(ctx context.Context, id int64) error {
	ctx, span := startSpan(ctx, "Delete", attribute.Int64("event.id", id))
	defer span.End()
	start := time.Now()

	tag, err := r.pgpool.Exec(ctx, "DELETE FROM events WHERE id = $1", id)
	metrics.Get().ObserveQuery(ctx, "events.delete", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to delete event", slog.String("method", "Delete"), slog.Int64("id", id), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB delete failed")
		return fmt.Errorf("database error deleting event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("event %d: %w", id, types.ErrNotFound)
	}
	return nil
}
