package relation

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

var _ RelationRepo = (*PostgresRelationRepo)(nil)

// RelationRepo reads and writes the event_participants association.
type RelationRepo interface {
	List(ctx context.Context) ([]types.EventParticipant, error)
	Add(ctx context.Context, eventID, participantID int64) (*types.EventParticipant, error)
	// Remove deletes every row for the pair.
	Remove(ctx context.Context, eventID, participantID int64) error
	EventsByParticipant(ctx context.Context, participantID int64) ([]types.EventSummary, error)
	ParticipantsByEvent(ctx context.Context, eventID int64) ([]types.ParticipantSummary, error)
}

type PostgresRelationRepo struct {
	logger *slog.Logger
	pgpool database.DBTX
}

func NewPostgresRelationRepo(pgpool database.DBTX, logger *slog.Logger) *PostgresRelationRepo {
	return &PostgresRelationRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, semconv.DBSystemPostgreSQL, attribute.String("db.sql.table", "event_participants"))
	return otel.Tracer("RelationRepo").Start(ctx, name, trace.WithAttributes(attrs...))
}

func (r *PostgresRelationRepo) List(ctx context.Context) ([]types.EventParticipant, error) {
	ctx, span := startSpan(ctx, "List")
	defer span.End()
	start := time.Now()

	rows, err := r.pgpool.Query(ctx, "SELECT id, event_id, participant_id FROM event_participants ORDER BY id")
	if err != nil {
		metrics.Get().ObserveQuery(ctx, "relations.list", start, err)
		r.logger.ErrorContext(ctx, "Failed to query relations", slog.String("method", "List"), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error listing relations: %w", err)
	}
	defer rows.Close()

	relations := []types.EventParticipant{}
	for rows.Next() {
		var ep types.EventParticipant
		if err = rows.Scan(&ep.ID, &ep.EventID, &ep.ParticipantID); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("database error scanning relation: %w", err)
		}
		relations = append(relations, ep)
	}
	err = rows.Err()
	metrics.Get().ObserveQuery(ctx, "relations.list", start, err)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("database error iterating relations: %w", err)
	}
	return relations, nil
}

// Add inserts one association row. Neither side is checked for existence
// and repeating a pair creates another row.
func (r *PostgresRelationRepo) Add(ctx context.Context, eventID, participantID int64) (*types.EventParticipant, error) {
	ctx, span := startSpan(ctx, "Add",
		attribute.Int64("event.id", eventID),
		attribute.Int64("participant.id", participantID),
	)
	defer span.End()
	start := time.Now()

	var ep types.EventParticipant
	err := r.pgpool.QueryRow(ctx,
		"INSERT INTO event_participants (event_id, participant_id) VALUES ($1, $2) RETURNING id, event_id, participant_id",
		eventID, participantID,
	).Scan(&ep.ID, &ep.EventID, &ep.ParticipantID)
	metrics.Get().ObserveQuery(ctx, "relations.insert", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert relation",
			slog.String("method", "Add"),
			slog.Int64("event_id", eventID),
			slog.Int64("participant_id", participantID),
			slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB insert failed")
		return nil, fmt.Errorf("database error adding participant to event: %w", err)
	}
	return &ep, nil
}

func (r *PostgresRelationRepo) Remove(ctx context.Context, eventID, participantID int64) error {
	ctx, span := startSpan(ctx, "Remove",
		attribute.Int64("event.id", eventID),
		attribute.Int64("participant.id", participantID),
	)
	defer span.End()
	start := time.Now()

	tag, err := r.pgpool.Exec(ctx,
		"DELETE FROM event_participants WHERE event_id = $1 AND participant_id = $2",
		eventID, participantID,
	)
	metrics.Get().ObserveQuery(ctx, "relations.delete", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to delete relation", slog.String("method", "Remove"), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB delete failed")
		return fmt.Errorf("database error removing participant from event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("association %d/%d: %w", eventID, participantID, types.ErrNotFound)
	}
	span.SetAttributes(attribute.Int64("db.rows_affected", tag.RowsAffected()))
	return nil
}

func (r *PostgresRelationRepo) EventsByParticipant(ctx context.Context, participantID int64) ([]types.EventSummary, error) {
	ctx, span := startSpan(ctx, "EventsByParticipant", attribute.Int64("participant.id", participantID))
	defer span.End()
	start := time.Now()

	query := `
		SELECT e.id, COALESCE(e.name, '')
		FROM events e
		JOIN event_participants ep ON ep.event_id = e.id
		WHERE ep.participant_id = $1
		ORDER BY e.name, e.id`
	rows, err := r.pgpool.Query(ctx, query, participantID)
	if err != nil {
		metrics.Get().ObserveQuery(ctx, "relations.events_by_participant", start, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error fetching events for participant: %w", err)
	}
	defer rows.Close()

	events := []types.EventSummary{}
	for rows.Next() {
		var e types.EventSummary
		if err = rows.Scan(&e.EventID, &e.EventName); err != nil {
			return nil, fmt.Errorf("database error scanning event summary: %w", err)
		}
		events = append(events, e)
	}
	err = rows.Err()
	metrics.Get().ObserveQuery(ctx, "relations.events_by_participant", start, err)
	if err != nil {
		return nil, fmt.Errorf("database error iterating event summaries: %w", err)
	}
	return events, nil
}

func (r *PostgresRelationRepo) ParticipantsByEvent(ctx context.Context, eventID int64) ([]types.ParticipantSummary, error) {
	ctx, span := startSpan(ctx, "ParticipantsByEvent", attribute.Int64("event.id", eventID))
	defer span.End()
	start := time.Now()

	query := `
		SELECT p.id, COALESCE(p.name, ''), COALESCE(p.email, '')
		FROM participants p
		JOIN event_participants ep ON ep.participant_id = p.id
		WHERE ep.event_id = $1
		ORDER BY p.name, p.id`
	rows, err := r.pgpool.Query(ctx, query, eventID)
	if err != nil {
		metrics.Get().ObserveQuery(ctx, "relations.participants_by_event", start, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error fetching participants for event: %w", err)
	}
	defer rows.Close()

	participants := []types.ParticipantSummary{}
	for rows.Next() {
		var p types.ParticipantSummary
		if err = rows.Scan(&p.ParticipantID, &p.ParticipantName, &p.Email); err != nil {
			return nil, fmt.Errorf("database error scanning participant summary: %w", err)
		}
		participants = append(participants, p)
	}
	err = rows.Err()
	metrics.Get().ObserveQuery(ctx, "relations.participants_by_event", start, err)
	if err != nil {
		return nil, fmt.Errorf("database error iterating participant summaries: %w", err)
	}
	return participants, nil
}
