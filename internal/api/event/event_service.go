package event

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/go-evently-api/internal/types"
)

var _ EventService = (*EventServiceImpl)(nil)

type EventService interface {
	ListEvents(ctx context.Context) ([]types.EventWithParticipants, error)
	GetEvent(ctx context.Context, id int64) (*types.Event, error)
	CreateEvent(ctx context.Context, in types.EventInput) (*types.Event, error)
	UpdateEvent(ctx context.Context, id int64, in types.EventInput) (*types.Event, error)
	DeleteEvent(ctx context.Context, id int64) error
	ExportCSV(ctx context.Context, w io.Writer) error
}

// Notifier receives a message after each successful write.
type Notifier interface {
	Notify(ctx context.Context, typ types.NotificationType, eventID, participantID int64)
}

type EventServiceImpl struct {
	logger   *slog.Logger
	repo     EventRepo
	notifier Notifier
}

func NewEventService(repo EventRepo, notifier Notifier, logger *slog.Logger) *EventServiceImpl {
	return &EventServiceImpl{
		logger:   logger,
		repo:     repo,
		notifier: notifier,
	}
}

func (s *EventServiceImpl) ListEvents(ctx context.Context) ([]types.EventWithParticipants, error) {
	ctx, span := otel.Tracer("EventService").Start(ctx, "ListEvents")
	defer span.End()

	events, err := s.repo.ListWithParticipants(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list failed")
		return nil, err
	}
	return events, nil
}

func (s *EventServiceImpl) GetEvent(ctx context.Context, id int64) (*types.Event, error) {
	ctx, span := otel.Tracer("EventService").Start(ctx, "GetEvent")
	defer span.End()
	return s.repo.GetByID(ctx, id)
}

func (s *EventServiceImpl) CreateEvent(ctx context.Context, in types.EventInput) (*types.Event, error) {
	ctx, span := otel.Tracer("EventService").Start(ctx, "CreateEvent")
	defer span.End()

	e, err := s.repo.Create(ctx, in)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	s.logger.InfoContext(ctx, "Event created", slog.String("method", "CreateEvent"), slog.Int64("event_id", e.ID))
	s.notifier.Notify(ctx, types.NotificationEventCreated, e.ID, 0)
	return e, nil
}

func (s *EventServiceImpl) UpdateEvent(ctx context.Context, id int64, in types.EventInput) (*types.Event, error) {
	ctx, span := otel.Tracer("EventService").Start(ctx, "UpdateEvent")
	defer span.End()

	e, err := s.repo.Update(ctx, id, in)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	s.notifier.Notify(ctx, types.NotificationEventUpdated, e.ID, 0)
	return e, nil
}

func (s *EventServiceImpl) DeleteEvent(ctx context.Context, id int64) error {
	ctx, span := otel.Tracer("EventService").Start(ctx, "DeleteEvent")
	defer span.End()

	if err := s.repo.Delete(ctx, id); err != nil {
		span.RecordError(err)
		return err
	}
	s.logger.InfoContext(ctx, "Event deleted", slog.String("method", "DeleteEvent"), slog.Int64("event_id", id))
	s.notifier.Notify(ctx, types.NotificationEventDeleted, id, 0)
	return nil
}

var csvHeader = []string{"ID", "Event Name", "Type", "Date", "Location", "Description", "Participants"}

// ExportCSV writes the event listing as CSV, one row per event, in listing
// order. Participant names are joined with ", ".
func (s *EventServiceImpl) ExportCSV(ctx context.Context, w io.Writer) error {
	ctx, span := otel.Tracer("EventService").Start(ctx, "ExportCSV")
	defer span.End()

	events, err := s.repo.ListWithParticipants(ctx)
	if err != nil {
		span.RecordError(err)
		return err
	}

	cw := csv.NewWriter(w)
	if err = cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, e := range events {
		names := make([]string, 0, len(e.Participants))
		for _, p := range e.Participants {
			names = append(names, p.Name)
		}
		record := []string{
			strconv.FormatInt(e.EventID, 10),
			e.EventName,
			e.Type,
			e.Date.String(),
			e.Location,
			e.Description,
			strings.Join(names, ", "),
		}
		if err = cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
