package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/FACorreiaa/go-evently-api/internal/api"
	"github.com/FACorreiaa/go-evently-api/internal/types"
)

const (
	msgNoToken      = "Access denied. No token provided."
	msgInvalidToken = "Invalid or expired token."
)

type contextKey string

const identityKey contextKey = "identity"

// TokenVerifier is satisfied by *TokenManager.
type TokenVerifier interface {
	Verify(token string, now time.Time) (*types.Claims, error)
}

// Authenticate guards a route group. A missing header or empty bearer token
// is rejected with 401; any token that fails verification with 403.
func Authenticate(logger *slog.Logger, tokens TokenVerifier) func(next http.Handler) http.Handler {
	return AuthenticateWithClock(logger, tokens, time.Now)
}

func AuthenticateWithClock(logger *slog.Logger, tokens TokenVerifier, now func() time.Time) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			l := logger.With(slog.String("middleware", "Authenticate"), slog.String("path", r.URL.Path))

			authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
			if authHeader == "" {
				l.DebugContext(ctx, "Missing Authorization header")
				api.ErrorResponse(w, r, http.StatusUnauthorized, msgNoToken)
				return
			}

			scheme, tokenString, _ := strings.Cut(authHeader, " ")
			if !strings.EqualFold(scheme, "bearer") {
				l.WarnContext(ctx, "Invalid Authorization header format")
				api.ErrorResponse(w, r, http.StatusForbidden, msgInvalidToken)
				return
			}
			tokenString = strings.TrimSpace(tokenString)
			if tokenString == "" {
				l.DebugContext(ctx, "Empty bearer token")
				api.ErrorResponse(w, r, http.StatusUnauthorized, msgNoToken)
				return
			}

			claims, err := tokens.Verify(tokenString, now())
			if err != nil {
				l.WarnContext(ctx, "Token verification failed", slog.Any("error", err))
				api.ErrorResponse(w, r, http.StatusForbidden, msgInvalidToken)
				return
			}

			userID, err := uuid.Parse(claims.UserID)
			if err != nil {
				l.WarnContext(ctx, "Token carries a malformed user id", slog.String("uid", claims.UserID))
				api.ErrorResponse(w, r, http.StatusForbidden, msgInvalidToken)
				return
			}

			ctx = WithIdentity(ctx, types.Identity{UserID: userID, Email: claims.Email})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func WithIdentity(ctx context.Context, id types.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext returns the caller attached by Authenticate.
func IdentityFromContext(ctx context.Context) (types.Identity, bool) {
	id, ok := ctx.Value(identityKey).(types.Identity)
	return id, ok
}
