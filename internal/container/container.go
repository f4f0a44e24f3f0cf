package container

import (
	"log/slog"

	database "github.com/FACorreiaa/go-evently-api/app/db"
	"github.com/FACorreiaa/go-evently-api/config"
	"github.com/FACorreiaa/go-evently-api/internal/api/auth"
	"github.com/FACorreiaa/go-evently-api/internal/api/event"
	"github.com/FACorreiaa/go-evently-api/internal/api/participant"
	"github.com/FACorreiaa/go-evently-api/internal/api/relation"
	"github.com/FACorreiaa/go-evently-api/internal/api/statistics"
	"github.com/FACorreiaa/go-evently-api/internal/notifier"
	"github.com/FACorreiaa/go-evently-api/internal/router"
)

// Container holds all application dependencies
type Container struct {
	Config             *config.Config
	Logger             *slog.Logger
	Tokens             *auth.TokenManager
	Publisher          notifier.Publisher
	AuthHandler        *auth.AuthHandlerImpl
	EventHandler       *event.HandlerImpl
	ParticipantHandler *participant.HandlerImpl
	RelationHandler    *relation.HandlerImpl
	StatisticsHandler  *statistics.HandlerImpl
}

// NewContainer wires repositories, services and handlers over pool. The
// caller owns pool; Close only releases what the container opened.
func NewContainer(cfg *config.Config, pool database.DBTX, logger *slog.Logger) (*Container, error) {
	tokens, err := auth.NewTokenManager(cfg.JWT)
	if err != nil {
		logger.Error("Failed to initialize token manager", slog.Any("error", err))
		return nil, err
	}

	publisher := notifier.New(cfg.Kafka, logger)
	eventNotifier := notifier.NewNotifier(publisher, logger)

	authRepo := auth.NewPostgresAuthRepo(pool, logger)
	authService := auth.NewAuthService(authRepo, tokens, logger)
	authHandler := auth.NewAuthHandlerImpl(authService, logger)

	eventRepo := event.NewPostgresEventRepo(pool, logger)
	eventService := event.NewEventService(eventRepo, eventNotifier, logger)
	eventHandler := event.NewHandlerImpl(eventService, logger)

	participantRepo := participant.NewPostgresParticipantRepo(pool, logger)
	participantService := participant.NewParticipantService(participantRepo, logger)
	participantHandler := participant.NewHandlerImpl(participantService, logger)

	relationRepo := relation.NewPostgresRelationRepo(pool, logger)
	relationService := relation.NewRelationService(relationRepo, eventNotifier, logger)
	relationHandler := relation.NewHandlerImpl(relationService, logger)

	statisticsRepo := statistics.NewPostgresStatisticsRepo(pool, logger)
	statisticsService := statistics.NewStatisticsService(statisticsRepo, logger)
	statisticsHandler := statistics.NewHandlerImpl(statisticsService, logger)

	return &Container{
		Config:             cfg,
		Logger:             logger,
		Tokens:             tokens,
		Publisher:          publisher,
		AuthHandler:        authHandler,
		EventHandler:       eventHandler,
		ParticipantHandler: participantHandler,
		RelationHandler:    relationHandler,
		StatisticsHandler:  statisticsHandler,
	}, nil
}

// RouterConfig returns the handlers and middleware for router.SetupRouter.
func (c *Container) RouterConfig() *router.Config {
	return &router.Config{
		AuthHandler:            c.AuthHandler,
		EventHandler:           c.EventHandler,
		ParticipantHandler:     c.ParticipantHandler,
		RelationHandler:        c.RelationHandler,
		StatisticsHandler:      c.StatisticsHandler,
		AuthenticateMiddleware: auth.Authenticate(c.Logger, c.Tokens),
		AllowedOrigins:         c.Config.CORS.AllowedOrigins,
		AuthRequestsPerMinute:  c.Config.RateLimit.AuthRequestsPerMinute,
	}
}

// Close flushes and closes the notification publisher.
func (c *Container) Close() error {
	if c.Publisher != nil {
		return c.Publisher.Close()
	}
	return nil
}
