package relation

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-evently-api/internal/api"
	"github.com/FACorreiaa/go-evently-api/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	ListRelations(w http.ResponseWriter, r *http.Request)
	AddParticipantToEvent(w http.ResponseWriter, r *http.Request)
	RemoveParticipantFromEvent(w http.ResponseWriter, r *http.Request)
	GetEventsByParticipant(w http.ResponseWriter, r *http.Request)
	GetParticipantsByEvent(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	relationService RelationService
	logger          *slog.Logger
}

func NewHandlerImpl(relationService RelationService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		relationService: relationService,
		logger:          logger,
	}
}

func startHandlerSpan(r *http.Request, name, route string) (*http.Request, trace.Span) {
	ctx, span := otel.Tracer("RelationHandler").Start(r.Context(), name, trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String(route),
	))
	return r.WithContext(ctx), span
}

func (h *HandlerImpl) fail(w http.ResponseWriter, r *http.Request, span trace.Span, err error, failMsg string) {
	span.RecordError(err)
	span.SetStatus(codes.Error, failMsg)
	switch status := api.StatusFromError(err); status {
	case http.StatusNotFound:
		api.ErrorResponse(w, r, status, "Association not found")
	case http.StatusBadRequest:
		api.ErrorResponse(w, r, status, err.Error())
	default:
		h.logger.ErrorContext(r.Context(), failMsg, slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, failMsg)
	}
}

// pairParams reads {eventId} and {participantId}.
func pairParams(r *http.Request) (eventID, participantID int64, err error) {
	if eventID, err = api.ParseIDParam(r, "eventId"); err != nil {
		return 0, 0, err
	}
	if participantID, err = api.ParseIDParam(r, "participantId"); err != nil {
		return 0, 0, err
	}
	return eventID, participantID, nil
}

// ListRelations godoc
// @Summary      List every event/participant association
// @Tags         Relations
// @Produce      json
// @Success      200 {array} types.EventParticipant
// @Failure      500 {object} api.ErrorBody
// @Security     BearerAuth
// @Router       /relations [get]
func (h *HandlerImpl) ListRelations(w http.ResponseWriter, r *http.Request) {
	r, span := startHandlerSpan(r, "ListRelations", "/api/relations")
	defer span.End()

	relations, err := h.relationService.ListRelations(r.Context())
	if err != nil {
		h.fail(w, r, span, err, "Failed to retrieve relations")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, relations)
}

// AddParticipantToEvent godoc
// @Summary      Add a participant to an event
// @Tags         Relations
// @Produce      json
// @Param        eventId       path int true "Event ID"
// @Param        participantId path int true "Participant ID"
// @Success      201 {object} types.AssociationResponse
// @Failure      400 {object} api.ErrorBody
// @Failure      500 {object} api.ErrorBody
// @Security     BearerAuth
// @Router       /events/{eventId}/participants/{participantId} [post]
func (h *HandlerImpl) AddParticipantToEvent(w http.ResponseWriter, r *http.Request) {
	r, span := startHandlerSpan(r, "AddParticipantToEvent", "/api/events/{eventId}/participants/{participantId}")
	defer span.End()

	eventID, participantID, err := pairParams(r)
	if err != nil {
		h.fail(w, r, span, err, "Failed to add participant to event")
		return
	}
	ep, err := h.relationService.AddParticipantToEvent(r.Context(), eventID, participantID)
	if err != nil {
		h.fail(w, r, span, err, "Failed to add participant to event")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusCreated, types.AssociationResponse{
		Message:     "Participant added to event successfully",
		Association: *ep,
	})
}

// RemoveParticipantFromEvent godoc
// @Summary      Remove a participant from an event
// @Description  Deletes every association row for the pair.
// @Tags         Relations
// @Produce      json
// @Param        eventId       path int true "Event ID"
// @Param        participantId path int true "Participant ID"
// @Success      200 {object} types.MessageResponse
// @Failure      404 {object} api.ErrorBody "Association not found"
// @Security     BearerAuth
// @Router       /events/{eventId}/participants/{participantId} [delete]
func (h *HandlerImpl) RemoveParticipantFromEvent(w http.ResponseWriter, r *http.Request) {
	r, span := startHandlerSpan(r, "RemoveParticipantFromEvent", "/api/events/{eventId}/participants/{participantId}")
	defer span.End()

	eventID, participantID, err := pairParams(r)
	if err != nil {
		h.fail(w, r, span, err, "Failed to remove participant from event")
		return
	}
	if err = h.relationService.RemoveParticipantFromEvent(r.Context(), eventID, participantID); err != nil {
		h.fail(w, r, span, err, "Failed to remove participant from event")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, types.MessageResponse{Message: "Participant removed from event successfully"})
}

// GetEventsByParticipant godoc
// @Summary      Events a participant is attached to
// @Tags         Relations
// @Produce      json
// @Param        participantId path int true "Participant ID"
// @Success      200 {array} types.EventSummary
// @Failure      400 {object} api.ErrorBody
// @Security     BearerAuth
// @Router       /events/participants/{participantId} [get]
func (h *HandlerImpl) GetEventsByParticipant(w http.ResponseWriter, r *http.Request) {
	r, span := startHandlerSpan(r, "GetEventsByParticipant", "/api/events/participants/{participantId}")
	defer span.End()

	participantID, err := api.ParseIDParam(r, "participantId")
	if err != nil {
		h.fail(w, r, span, err, "Failed to retrieve events for participant")
		return
	}
	events, err := h.relationService.GetEventsByParticipant(r.Context(), participantID)
	if err != nil {
		h.fail(w, r, span, err, "Failed to retrieve events for participant")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, events)
}

// GetParticipantsByEvent godoc
// @Summary      Participants attached to an event
// @Tags         Relations
// @Produce      json
// @Param        eventId path int true "Event ID"
// @Success      200 {array} types.ParticipantSummary
// @Failure      400 {object} api.ErrorBody
// @Security     BearerAuth
// @Router       /events/{eventId}/participants [get]
func (h *HandlerImpl) GetParticipantsByEvent(w http.ResponseWriter, r *http.Request) {
	r, span := startHandlerSpan(r, "GetParticipantsByEvent", "/api/events/{eventId}/participants")
	defer span.End()

	eventID, err := api.ParseIDParam(r, "eventId")
	if err != nil {
		h.fail(w, r, span, err, "Failed to retrieve participants")
		return
	}
	participants, err := h.relationService.GetParticipantsByEvent(r.Context(), eventID)
	if err != nil {
		h.fail(w, r, span, err, "Failed to retrieve participants")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, participants)
}
