package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-evently-api/internal/api"
	"github.com/FACorreiaa/go-evently-api/internal/types"
)

var _ Handler = (*AuthHandlerImpl)(nil)

type Handler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	authService AuthService
	logger      *slog.Logger
}

func NewAuthHandlerImpl(authService AuthService, logger *slog.Logger) *AuthHandlerImpl {
	return &AuthHandlerImpl{
		authService: authService,
		logger:      logger,
	}
}

// Register godoc
// @Summary      Register a new user
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body body types.RegisterRequest true "Credentials"
// @Success      201 {object} types.RegisterResponse
// @Failure      400 {object} api.ErrorBody "Missing email or password"
// @Failure      409 {object} api.ErrorBody "Email already in use"
// @Router       /auth/register [post]
func (h *AuthHandlerImpl) Register(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AuthHandler").Start(r.Context(), "Register", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/auth/register"),
	))
	defer span.End()
	l := h.logger.With(slog.String("handler", "Register"))

	var req types.RegisterRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		span.SetStatus(codes.Error, "bad body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.authService.Register(ctx, req)
	if err != nil {
		status := api.StatusFromError(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "register failed")
		switch status {
		case http.StatusBadRequest:
			api.ErrorResponse(w, r, status, "email and password are required")
		case http.StatusConflict:
			api.ErrorResponse(w, r, status, "email already in use")
		default:
			l.ErrorContext(ctx, "Registration failed", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to register user")
		}
		return
	}

	span.SetStatus(codes.Ok, "registered")
	api.WriteJSONResponse(w, r, http.StatusCreated, user)
}

// Login godoc
// @Summary      Log in
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body body types.LoginRequest true "Credentials"
// @Success      200 {object} types.LoginResponse
// @Failure      400 {object} api.ErrorBody
// @Failure      401 {object} api.ErrorBody "Invalid email or password"
// @Router       /auth/login [post]
func (h *AuthHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AuthHandler").Start(r.Context(), "Login", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/auth/login"),
	))
	defer span.End()
	l := h.logger.With(slog.String("handler", "Login"))

	var req types.LoginRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		span.SetStatus(codes.Error, "bad body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.authService.Login(ctx, req)
	if err != nil {
		span.SetStatus(codes.Error, "login failed")
		switch {
		case errors.Is(err, types.ErrValidation):
			api.ErrorResponse(w, r, http.StatusBadRequest, "email and password are required")
		case errors.Is(err, types.ErrUnauthenticated):
			api.ErrorResponse(w, r, http.StatusUnauthorized, invalidCredentialsMsg)
		default:
			span.RecordError(err)
			l.ErrorContext(ctx, "Login failed", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to log in")
		}
		return
	}

	span.SetStatus(codes.Ok, "logged in")
	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

// Me godoc
// @Summary      Current user
// @Tags         Auth
// @Produce      json
// @Success      200 {object} types.RegisterResponse
// @Failure      404 {object} api.ErrorBody
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *AuthHandlerImpl) Me(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AuthHandler").Start(r.Context(), "Me")
	defer span.End()

	id, ok := IdentityFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, msgNoToken)
		return
	}

	user, err := h.authService.GetUserByID(ctx, id.UserID)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "User not found")
			return
		}
		h.logger.ErrorContext(ctx, "Failed to load current user", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch user")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, user)
}
