package participant

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"

	"github.com/FACorreiaa/go-evently-api/internal/types"
)

var _ ParticipantService = (*ParticipantServiceImpl)(nil)

type ParticipantService interface {
	ListParticipants(ctx context.Context) ([]types.Participant, error)
	GetParticipant(ctx context.Context, id int64) (*types.Participant, error)
	CreateParticipant(ctx context.Context, in types.ParticipantInput) (*types.Participant, error)
	UpdateParticipant(ctx context.Context, id int64, in types.ParticipantInput) (*types.Participant, error)
	DeleteParticipant(ctx context.Context, id int64) error
}

// ParticipantServiceImpl adds no rules on top of the store: empty names and
// duplicate emails are accepted.
type ParticipantServiceImpl struct {
	logger *slog.Logger
	repo   ParticipantRepo
}

func NewParticipantService(repo ParticipantRepo, logger *slog.Logger) *ParticipantServiceImpl {
	return &ParticipantServiceImpl{logger: logger, repo: repo}
}

func (s *ParticipantServiceImpl) ListParticipants(ctx context.Context) ([]types.Participant, error) {
	ctx, span := otel.Tracer("ParticipantService").Start(ctx, "ListParticipants")
	defer span.End()
	return s.repo.List(ctx)
}

func (s *ParticipantServiceImpl) GetParticipant(ctx context.Context, id int64) (*types.Participant, error) {
	ctx, span := otel.Tracer("ParticipantService").Start(ctx, "GetParticipant")
	defer span.End()
	return s.repo.GetByID(ctx, id)
}

func (s *ParticipantServiceImpl) CreateParticipant(ctx context.Context, in types.ParticipantInput) (*types.Participant, error) {
	ctx, span := otel.Tracer("ParticipantService").Start(ctx, "CreateParticipant")
	defer span.End()

	p, err := s.repo.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "Participant created", slog.Int64("participant_id", p.ID))
	return p, nil
}

func (s *ParticipantServiceImpl) UpdateParticipant(ctx context.Context, id int64, in types.ParticipantInput) (*types.Participant, error) {
	ctx, span := otel.Tracer("ParticipantService").Start(ctx, "UpdateParticipant")
	defer span.End()
	return s.repo.Update(ctx, id, in)
}

func (s *ParticipantServiceImpl) DeleteParticipant(ctx context.Context, id int64) error {
	ctx, span := otel.Tracer("ParticipantService").Start(ctx, "DeleteParticipant")
	defer span.End()

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Participant deleted", slog.Int64("participant_id", id))
	return nil
}
