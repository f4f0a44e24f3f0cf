package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/crypto/bcrypt"

	"github.com/FACorreiaa/go-evently-api/app/observability/metrics"
	"github.com/FACorreiaa/go-evently-api/internal/types"
)

var _ AuthService = (*AuthServiceImpl)(nil)

// Both unknown email and wrong password produce this message.
const invalidCredentialsMsg = "invalid email or password"

// bcrypt only reads the first 72 bytes of its input.
const bcryptMaxInput = 72

// passwordInput returns the bytes fed to bcrypt. Passwords longer than
// bcrypt accepts are replaced by their hex SHA-256 digest (64 bytes) so
// bytes past the limit still count.
func passwordInput(password string) []byte {
	if len(password) <= bcryptMaxInput {
		return []byte(password)
	}
	sum := sha256.Sum256([]byte(password))
	return []byte(hex.EncodeToString(sum[:]))
}

type AuthService interface {
	Register(ctx context.Context, req types.RegisterRequest) (*types.RegisterResponse, error)
	Login(ctx context.Context, req types.LoginRequest) (*types.LoginResponse, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*types.RegisterResponse, error)
}

type AuthServiceImpl struct {
	logger     *slog.Logger
	repo       AuthRepo
	tokens     *TokenManager
	validate   *validator.Validate
	now        func() time.Time
	bcryptCost int

	// dummyHash is compared on unknown emails so both login failures cost
	// one bcrypt comparison.
	dummyOnce sync.Once
	dummyHash []byte
}

func NewAuthService(repo AuthRepo, tokens *TokenManager, logger *slog.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{
		logger:     logger,
		repo:       repo,
		tokens:     tokens,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		now:        time.Now,
		bcryptCost: bcrypt.DefaultCost,
	}
}

// Register creates a user with a bcrypt-hashed password.
func (s *AuthServiceImpl) Register(ctx context.Context, req types.RegisterRequest) (*types.RegisterResponse, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Register")
	defer span.End()
	l := s.logger.With(slog.String("method", "Register"))
	start := time.Now()

	req.Email = strings.TrimSpace(req.Email)
	if err := s.validate.StructCtx(ctx, req); err != nil {
		metrics.Get().ObserveAuth(ctx, "register", "invalid", start)
		span.SetStatus(codes.Error, "validation failed")
		return nil, fmt.Errorf("%w: email and password are required", types.ErrValidation)
	}

	_, err := s.repo.GetUserByEmail(ctx, req.Email)
	switch {
	case err == nil:
		l.InfoContext(ctx, "Registration rejected, email taken")
		metrics.Get().ObserveAuth(ctx, "register", "conflict", start)
		span.SetStatus(codes.Error, "email in use")
		return nil, fmt.Errorf("email already in use: %w", types.ErrConflict)
	case !errors.Is(err, types.ErrNotFound):
		metrics.Get().ObserveAuth(ctx, "register", "error", start)
		span.RecordError(err)
		span.SetStatus(codes.Error, "lookup failed")
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword(passwordInput(req.Password), s.bcryptCost)
	if err != nil {
		metrics.Get().ObserveAuth(ctx, "register", "error", start)
		span.RecordError(err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.repo.CreateUser(ctx, req.Email, string(hash))
	if err != nil {
		outcome := "error"
		if errors.Is(err, types.ErrConflict) {
			outcome = "conflict"
		}
		metrics.Get().ObserveAuth(ctx, "register", outcome, start)
		span.RecordError(err)
		span.SetStatus(codes.Error, "create failed")
		return nil, err
	}

	l.InfoContext(ctx, "User registered", slog.String("user_id", user.ID.String()))
	metrics.Get().ObserveAuth(ctx, "register", "success", start)
	span.SetStatus(codes.Ok, "registered")
	return &types.RegisterResponse{ID: user.ID, Email: user.Email}, nil
}

// Login verifies credentials and issues an access token.
func (s *AuthServiceImpl) Login(ctx context.Context, req types.LoginRequest) (*types.LoginResponse, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Login")
	defer span.End()
	l := s.logger.With(slog.String("method", "Login"))
	start := time.Now()

	req.Email = strings.TrimSpace(req.Email)
	if err := s.validate.StructCtx(ctx, req); err != nil {
		metrics.Get().ObserveAuth(ctx, "login", "invalid", start)
		span.SetStatus(codes.Error, "validation failed")
		return nil, fmt.Errorf("%w: email and password are required", types.ErrValidation)
	}

	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			s.compareDummy(req.Password)
			l.InfoContext(ctx, "Login failed")
			metrics.Get().ObserveAuth(ctx, "login", "rejected", start)
			span.SetStatus(codes.Error, "invalid credentials")
			return nil, fmt.Errorf("%s: %w", invalidCredentialsMsg, types.ErrUnauthenticated)
		}
		metrics.Get().ObserveAuth(ctx, "login", "error", start)
		span.RecordError(err)
		span.SetStatus(codes.Error, "lookup failed")
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.Password), passwordInput(req.Password)); err != nil {
		l.InfoContext(ctx, "Login failed")
		metrics.Get().ObserveAuth(ctx, "login", "rejected", start)
		span.SetStatus(codes.Error, "invalid credentials")
		return nil, fmt.Errorf("%s: %w", invalidCredentialsMsg, types.ErrUnauthenticated)
	}

	token, expiresAt, err := s.tokens.Issue(user, s.now())
	if err != nil {
		metrics.Get().ObserveAuth(ctx, "login", "error", start)
		span.RecordError(err)
		return nil, err
	}

	l.InfoContext(ctx, "User logged in", slog.String("user_id", user.ID.String()))
	metrics.Get().ObserveAuth(ctx, "login", "success", start)
	span.SetStatus(codes.Ok, "logged in")
	return &types.LoginResponse{Token: token, ExpiresAt: expiresAt}, nil
}

func (s *AuthServiceImpl) compareDummy(password string) {
	s.dummyOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("evently-dummy-password"), s.bcryptCost)
		if err != nil {
			s.logger.Error("Failed to build dummy password hash", slog.Any("error", err))
			return
		}
		s.dummyHash = hash
	})
	if s.dummyHash != nil {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, passwordInput(password))
	}
}

func (s *AuthServiceImpl) GetUserByID(ctx context.Context, userID uuid.UUID) (*types.RegisterResponse, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "GetUserByID")
	defer span.End()

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return &types.RegisterResponse{ID: user.ID, Email: user.Email}, nil
}
