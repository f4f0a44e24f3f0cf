package participant

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
	ListParticipants(w http.ResponseWriter, r *http.Request)
	GetParticipant(w http.ResponseWriter, r *http.Request)
	CreateParticipant(w http.ResponseWriter, r *http.Request)
	UpdateParticipant(w http.ResponseWriter, r *http.Request)
	DeleteParticipant(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	participantService ParticipantService
	logger             *slog.Logger
}

func NewHandlerImpl(participantService ParticipantService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		participantService: participantService,
		logger:             logger,
	}
}

func (h *HandlerImpl) span(r *http.Request, name, route string) (*http.Request, trace.Span) {
	ctx, span := otel.Tracer("ParticipantHandler").Start(r.Context(), name, trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String(route),
	))
	return r.WithContext(ctx), span
}

// fail maps err to a response. 404 and 400 carry their own message; anything
// else is logged and answered with failMsg.
func (h *HandlerImpl) fail(w http.ResponseWriter, r *http.Request, span trace.Span, err error, failMsg string) {
	span.RecordError(err)
	span.SetStatus(codes.Error, failMsg)
	switch status := api.StatusFromError(err); status {
	case http.StatusNotFound:
		api.ErrorResponse(w, r, status, "Participant not found")
	case http.StatusBadRequest:
		api.ErrorResponse(w, r, status, err.Error())
	default:
		h.logger.ErrorContext(r.Context(), failMsg, slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, failMsg)
	}
}

// ListParticipants godoc
// @Summary      List participants
// @Tags         Participants
// @Produce      json
// @Success      200 {array} types.Participant
// @Failure      500 {object} api.ErrorBody
// @Security     BearerAuth
// @Router       /participants [get]
func (h *HandlerImpl) ListParticipants(w http.ResponseWriter, r *http.Request) {
	r, span := h.span(r, "ListParticipants", "/api/participants")
	defer span.End()

	participants, err := h.participantService.ListParticipants(r.Context())
	if err != nil {
		h.fail(w, r, span, err, "Failed to retrieve participants")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, participants)
}

// GetParticipant godoc
// @Summary      Get a participant
// @Description  Mounted without the Access Guard.
// @Tags         Participants
// @Produce      json
// @Param        id path int true "Participant ID"
// @Success      200 {object} types.Participant
// @Failure      400 {object} api.ErrorBody
// @Failure      404 {object} api.ErrorBody
// @Router       /participants/{id} [get]
func (h *HandlerImpl) GetParticipant(w http.ResponseWriter, r *http.Request) {
	r, span := h.span(r, "GetParticipant", "/api/participants/{id}")
	defer span.End()

	id, err := api.ParseIDParam(r, "id")
	if err != nil {
		h.fail(w, r, span, err, "Failed to retrieve participant")
		return
	}
	p, err := h.participantService.GetParticipant(r.Context(), id)
	if err != nil {
		h.fail(w, r, span, err, "Failed to retrieve participant")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, p)
}

// CreateParticipant godoc
// @Summary      Create a participant
// @Tags         Participants
// @Accept       json
// @Produce      json
// @Param        body body types.ParticipantInput true "Participant"
// @Success      201 {object} types.Participant
// @Failure      400 {object} api.ErrorBody
// @Security     BearerAuth
// @Router       /participants [post]
func (h *HandlerImpl) CreateParticipant(w http.ResponseWriter, r *http.Request) {
	r, span := h.span(r, "CreateParticipant", "/api/participants")
	defer span.End()

	var in types.ParticipantInput
	if err := api.DecodeJSONBodyLenient(w, r, &in); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.participantService.CreateParticipant(r.Context(), in)
	if err != nil {
		h.fail(w, r, span, err, "Failed to create participant")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusCreated, p)
}

// UpdateParticipant godoc
// @Summary      Replace a participant
// @Tags         Participants
// @Accept       json
// @Produce      json
// @Param        id path int true "Participant ID"
// @Param        body body types.ParticipantInput true "Participant"
// @Success      200 {object} types.Participant
// @Failure      404 {object} api.ErrorBody
// @Security     BearerAuth
// @Router       /participants/{id} [put]
func (h *HandlerImpl) UpdateParticipant(w http.ResponseWriter, r *http.Request) {
	r, span := h.span(r, "UpdateParticipant", "/api/participants/{id}")
	defer span.End()

	id, err := api.ParseIDParam(r, "id")
	if err != nil {
		h.fail(w, r, span, err, "Failed to update participant")
		return
	}
	var in types.ParticipantInput
	if err = api.DecodeJSONBodyLenient(w, r, &in); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.participantService.UpdateParticipant(r.Context(), id, in)
	if err != nil {
		h.fail(w, r, span, err, "Failed to update participant")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, p)
}

// DeleteParticipant godoc
// @Summary      Delete a participant
// @Tags         Participants
// @Produce      json
// @Param        id path int true "Participant ID"
// @Success      200 {object} types.MessageResponse
// @Failure      404 {object} api.ErrorBody
// @Security     BearerAuth
// @Router       /participants/{id} [delete]
func (h *HandlerImpl) DeleteParticipant(w http.ResponseWriter, r *http.Request) {
	r, span := h.span(r, "DeleteParticipant", "/api/participants/{id}")
	defer span.End()

	id, err := api.ParseIDParam(r, "id")
	if err != nil {
		h.fail(w, r, span, err, "Failed to delete participant")
		return
	}
	if err = h.participantService.DeleteParticipant(r.Context(), id); err != nil {
		h.fail(w, r, span, err, "Failed to delete participant")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, types.MessageResponse{Message: "Participant deleted successfully"})
}
