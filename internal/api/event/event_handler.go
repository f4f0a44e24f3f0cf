package event

import (
	"bytes"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-evently-api/internal/api"
	"github.com/FACorreiaa/go-evently-api/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	ListEvents(w http.ResponseWriter, r *http.Request)
	GetEvent(w http.ResponseWriter, r *http.Request)
	CreateEvent(w http.ResponseWriter, r *http.Request)
	UpdateEvent(w http.ResponseWriter, r *http.Request)
	DeleteEvent(w http.ResponseWriter, r *http.Request)
	ExportEvents(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	eventService EventService
	logger       *slog.Logger
}

func NewHandlerImpl(eventService EventService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		eventService: eventService,
		logger:       logger,
	}
}

func startHandlerSpan(r *http.Request, name, route string) (*http.Request, trace.Span) {
	ctx, span := otel.Tracer("EventHandler").Start(r.Context(), name, trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String(route),
	))
	return r.WithContext(ctx), span
}

// fail writes the error response for err. Store failures are logged and
// reported with the generic message only.
func (h *HandlerImpl) fail(w http.ResponseWriter, r *http.Request, span trace.Span, err error, failMsg string) {
	span.RecordError(err)
	span.SetStatus(codes.Error, failMsg)
	switch status := api.StatusFromError(err); status {
	case http.StatusNotFound:
		api.ErrorResponse(w, r, status, "Event not found")
	case http.StatusBadRequest:
		api.ErrorResponse(w, r, status, err.Error())
	default:
		h.logger.ErrorContext(r.Context(), failMsg, slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, failMsg)
	}
}

// ListEvents godoc
// @Summary      List events with their participants
// @Tags         Events
// @Produce      json
// @Success      200 {array} types.EventWithParticipants
// @Failure      500 {object} api.ErrorBody
// @Security     BearerAuth
// @Router       /events [get]
func (h *HandlerImpl) ListEvents(w http.ResponseWriter, r *http.Request) {
	r, span := startHandlerSpan(r, "ListEvents", "/api/events")
	defer span.End()

	events, err := h.eventService.ListEvents(r.Context())
	if err != nil {
		h.fail(w, r, span, err, "Failed to retrieve events with participants")
		return
	}
	span.SetStatus(codes.Ok, "events listed")
	api.WriteJSONResponse(w, r, http.StatusOK, events)
}

// GetEvent godoc
// @Summary      Get an event
// @Tags         Events
// @Produce      json
// @Param        id path int true "Event ID"
// @Success      200 {object} types.Event
// @Failure      404 {object} api.ErrorBody
// @Security     BearerAuth
// @Router       /events/{id} [get]
func (h *HandlerImpl) GetEvent(w http.ResponseWriter, r *http.Request) {
	r, span := startHandlerSpan(r, "GetEvent", "/api/events/{id}")
	defer span.End()

	id, err := api.ParseIDParam(r, "id")
	if err != nil {
		h.fail(w, r, span, err, "Failed to retrieve event")
		return
	}
	span.SetAttributes(attribute.Int64("event.id", id))

	e, err := h.eventService.GetEvent(r.Context(), id)
	if err != nil {
		h.fail(w, r, span, err, "Failed to retrieve event")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, e)
}

// CreateEvent godoc
// @Summary      Create an event
// @Tags         Events
// @Accept       json
// @Produce      json
// @Param        body body types.EventInput true "Event"
// @Success      201 {object} types.Event
// @Security     BearerAuth
// @Router       /events [post]
func (h *HandlerImpl) CreateEvent(w http.ResponseWriter, r *http.Request) {
	r, span := startHandlerSpan(r, "CreateEvent", "/api/events")
	defer span.End()

	var in types.EventInput
	if err := api.DecodeJSONBodyLenient(w, r, &in); err != nil {
		span.SetStatus(codes.Error, "bad body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	e, err := h.eventService.CreateEvent(r.Context(), in)
	if err != nil {
		h.fail(w, r, span, err, "Failed to create event")
		return
	}
	span.SetStatus(codes.Ok, "event created")
	api.WriteJSONResponse(w, r, http.StatusCreated, e)
}

// UpdateEvent godoc
// @Summary      Replace an event
// @Tags         Events
// @Accept       json
// @Produce      json
// @Param        id path int true "Event ID"
// @Param        body body types.EventInput true "Event"
// @Success      200 {object} types.Event
// @Failure      404 {object} api.ErrorBody
// @Security     BearerAuth
// @Router       /events/{id} [put]
func (h *HandlerImpl) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	r, span := startHandlerSpan(r, "UpdateEvent", "/api/events/{id}")
	defer span.End()

	id, err := api.ParseIDParam(r, "id")
	if err != nil {
		h.fail(w, r, span, err, "Failed to update event")
		return
	}

	var in types.EventInput
	if err = api.DecodeJSONBodyLenient(w, r, &in); err != nil {
		span.SetStatus(codes.Error, "bad body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	e, err := h.eventService.UpdateEvent(r.Context(), id, in)
	if err != nil {
		h.fail(w, r, span, err, "Failed to update event")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, e)
}

// DeleteEvent godoc
// @Summary      Delete an event
// @Tags         Events
// @Produce      json
// @Param        id path int true "Event ID"
// @Success      200 {object} types.MessageResponse
// @Failure      404 {object} api.ErrorBody
// @Security     BearerAuth
// @Router       /events/{id} [delete]
func (h *HandlerImpl) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	r, span := startHandlerSpan(r, "DeleteEvent", "/api/events/{id}")
	defer span.End()

	id, err := api.ParseIDParam(r, "id")
	if err != nil {
		h.fail(w, r, span, err, "Failed to delete event")
		return
	}

	if err = h.eventService.DeleteEvent(r.Context(), id); err != nil {
		h.fail(w, r, span, err, "Failed to delete event")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, types.MessageResponse{Message: "Event deleted successfully"})
}

// ExportEvents godoc
// @Summary      Export events as CSV
// @Tags         Events
// @Produce      text/csv
// @Success      200 {file} file
// @Security     BearerAuth
// @Router       /events/export [get]
func (h *HandlerImpl) ExportEvents(w http.ResponseWriter, r *http.Request) {
	r, span := startHandlerSpan(r, "ExportEvents", "/api/events/export")
	defer span.End()

	// Buffered so a store failure can still produce a JSON error.
	var buf bytes.Buffer
	if err := h.eventService.ExportCSV(r.Context(), &buf); err != nil {
		h.fail(w, r, span, err, "Failed to export events")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="events.csv"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to write csv export", slog.Any("error", err))
	}
}
