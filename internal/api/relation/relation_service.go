package relation

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-evently-api/internal/types"
)

var _ RelationService = (*RelationServiceImpl)(nil)

type RelationService interface {
	ListRelations(ctx context.Context) ([]types.EventParticipant, error)
	AddParticipantToEvent(ctx context.Context, eventID, participantID int64) (*types.EventParticipant, error)
	RemoveParticipantFromEvent(ctx context.Context, eventID, participantID int64) error
	GetEventsByParticipant(ctx context.Context, participantID int64) ([]types.EventSummary, error)
	GetParticipantsByEvent(ctx context.Context, eventID int64) ([]types.ParticipantSummary, error)
}

type Notifier interface {
	Notify(ctx context.Context, typ types.NotificationType, eventID, participantID int64)
}

type RelationServiceImpl struct {
	logger   *slog.Logger
	repo     RelationRepo
	notifier Notifier
}

func NewRelationService(repo RelationRepo, notifier Notifier, logger *slog.Logger) *RelationServiceImpl {
	return &RelationServiceImpl{
		logger:   logger,
		repo:     repo,
		notifier: notifier,
	}
}

func (s *RelationServiceImpl) ListRelations(ctx context.Context) ([]types.EventParticipant, error) {
	return s.repo.List(ctx)
}

func (s *RelationServiceImpl) AddParticipantToEvent(ctx context.Context, eventID, participantID int64) (*types.EventParticipant, error) {
	ctx, span := otel.Tracer("RelationService").Start(ctx, "AddParticipantToEvent", trace.WithAttributes(
		attribute.Int64("event.id", eventID),
		attribute.Int64("participant.id", participantID),
	))
	defer span.End()

	ep, err := s.repo.Add(ctx, eventID, participantID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "add failed")
		return nil, err
	}
	s.logger.InfoContext(ctx, "Participant added to event",
		slog.Int64("event_id", eventID),
		slog.Int64("participant_id", participantID),
		slog.Int64("association_id", ep.ID))
	if s.notifier != nil {
		s.notifier.Notify(ctx, types.NotificationParticipantAdded, eventID, participantID)
	}
	return ep, nil
}

func (s *RelationServiceImpl) RemoveParticipantFromEvent(ctx context.Context, eventID, participantID int64) error {
	ctx, span := otel.Tracer("RelationService").Start(ctx, "RemoveParticipantFromEvent", trace.WithAttributes(
		attribute.Int64("event.id", eventID),
		attribute.Int64("participant.id", participantID),
	))
	defer span.End()

	if err := s.repo.Remove(ctx, eventID, participantID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "remove failed")
		return err
	}
	if s.notifier != nil {
		s.notifier.Notify(ctx, types.NotificationParticipantRemoved, eventID, participantID)
	}
	return nil
}

func (s *RelationServiceImpl) GetEventsByParticipant(ctx context.Context, participantID int64) ([]types.EventSummary, error) {
	return s.repo.EventsByParticipant(ctx, participantID)
}

func (s *RelationServiceImpl) GetParticipantsByEvent(ctx context.Context, eventID int64) ([]types.ParticipantSummary, error) {
	return s.repo.ParticipantsByEvent(ctx, eventID)
}
