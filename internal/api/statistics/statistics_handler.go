package statistics

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-evently-api/internal/api"
)

type HandlerImpl struct {
	statisticsService StatisticsService
	logger            *slog.Logger
}

func NewHandlerImpl(statisticsService StatisticsService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		statisticsService: statisticsService,
		logger:            logger,
	}
}

// GetStatistics godoc
// @Summary      Event counts by type, location and month
// @Tags         Statistics
// @Produce      json
// @Success      200 {object} types.Statistics
// @Failure      500 {object} api.ErrorBody
// @Security     BearerAuth
// @Router       /statistics [get]
func (h *HandlerImpl) GetStatistics(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("StatisticsHandler").Start(r.Context(), "GetStatistics", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/statistics"),
	))
	defer span.End()

	stats, err := h.statisticsService.GetStatistics(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "statistics failed")
		h.logger.ErrorContext(ctx, "Failed to retrieve statistics", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to retrieve statistics")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, stats)
}
