package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	database "github.com/FACorreiaa/go-evently-api/app/db"
	"github.com/FACorreiaa/go-evently-api/app/observability/metrics"
	"github.com/FACorreiaa/go-evently-api/internal/types"
)

var _ AuthRepo = (*PostgresAuthRepo)(nil)

// AuthRepo is the credential store.
type AuthRepo interface {
	GetUserByEmail(ctx context.Context, email string) (*types.UserAuth, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*types.UserAuth, error)
	CreateUser(ctx context.Context, email, hashedPassword string) (*types.UserAuth, error)
}

type PostgresAuthRepo struct {
	logger *slog.Logger
	pgpool database.DBTX
}

func NewPostgresAuthRepo(pgpool database.DBTX, logger *slog.Logger) *PostgresAuthRepo {
	return &PostgresAuthRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

const userColumns = "id, email, password_hash, created_at, updated_at"

// GetUserByEmail returns types.ErrNotFound when no user has that email.
func (r *PostgresAuthRepo) GetUserByEmail(ctx context.Context, email string) (*types.UserAuth, error) {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "GetUserByEmail", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()
	start := time.Now()

	var user types.UserAuth
	err := r.pgpool.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = $1", email,
	).Scan(&user.ID, &user.Email, &user.Password, &user.CreatedAt, &user.UpdatedAt)
	metrics.Get().ObserveQuery(ctx, "users.get_by_email", start, database.IgnoreNoRows(err))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Ok, "user not found")
			return nil, fmt.Errorf("user with email: %w", types.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Failed to query user by email", slog.String("method", "GetUserByEmail"), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error fetching user by email: %w", err)
	}

	span.SetStatus(codes.Ok, "user found")
	return &user, nil
}

func (r *PostgresAuthRepo) GetUserByID(ctx context.Context, userID uuid.UUID) (*types.UserAuth, error) {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "GetUserByID", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "users"),
		attribute.String("user.id", userID.String()),
	))
	defer span.End()
	start := time.Now()

	var user types.UserAuth
	err := r.pgpool.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1", userID,
	).Scan(&user.ID, &user.Email, &user.Password, &user.CreatedAt, &user.UpdatedAt)
	metrics.Get().ObserveQuery(ctx, "users.get_by_id", start, database.IgnoreNoRows(err))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", userID, types.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Failed to query user by id", slog.String("method", "GetUserByID"), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error fetching user by id: %w", err)
	}
	return &user, nil
}

// CreateUser inserts a user. A duplicate email maps to types.ErrConflict.
func (r *PostgresAuthRepo) CreateUser(ctx context.Context, email, hashedPassword string) (*types.UserAuth, error) {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "CreateUser", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()
	l := r.logger.With(slog.String("method", "CreateUser"))
	start := time.Now()

	user := types.UserAuth{Email: email, Password: hashedPassword}
	err := r.pgpool.QueryRow(ctx,
		"INSERT INTO users (email, password_hash) VALUES ($1, $2) RETURNING id, created_at, updated_at",
		email, hashedPassword,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	metrics.Get().ObserveQuery(ctx, "users.insert", start, err)
	if err != nil {
		span.RecordError(err)
		if database.IsUniqueViolation(err) {
			l.WarnContext(ctx, "Email already registered")
			span.SetStatus(codes.Error, "duplicate email")
			return nil, fmt.Errorf("email already in use: %w", types.ErrConflict)
		}
		l.ErrorContext(ctx, "Failed to insert user", slog.Any("error", err))
		span.SetStatus(codes.Error, "DB insert failed")
		return nil, fmt.Errorf("database error creating user: %w", err)
	}

	l.InfoContext(ctx, "User created", slog.String("user_id", user.ID.String()))
	span.SetStatus(codes.Ok, "user created")
	return &user, nil
}

