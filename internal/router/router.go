package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/FACorreiaa/go-evently-api/internal/api/auth"
	"github.com/FACorreiaa/go-evently-api/internal/api/event"
	"github.com/FACorreiaa/go-evently-api/internal/api/participant"
	"github.com/FACorreiaa/go-evently-api/internal/api/relation"
	"github.com/FACorreiaa/go-evently-api/internal/api/statistics"
)

// Config contains dependencies needed for the router setup
type Config struct {
	AuthHandler            auth.Handler
	EventHandler           event.Handler
	ParticipantHandler     participant.Handler
	RelationHandler        relation.Handler
	StatisticsHandler      *statistics.HandlerImpl
	AuthenticateMiddleware func(http.Handler) http.Handler
	AllowedOrigins         []string
	// AuthRequestsPerMinute limits register and login per client IP. Zero disables it.
	AuthRequestsPerMinute int
}

// SetupRouter wires every route of the API. Server-wide middleware (request
// id, logging, recoverer) is applied by the caller before mounting.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				if cfg.AuthRequestsPerMinute > 0 {
					r.Use(httprate.LimitByIP(cfg.AuthRequestsPerMinute, time.Minute))
				}
				r.Post("/register", cfg.AuthHandler.Register)
				r.Post("/login", cfg.AuthHandler.Login)
			})
			r.With(cfg.AuthenticateMiddleware).Get("/me", cfg.AuthHandler.Me)
		})

		r.Route("/events", func(r chi.Router) {
			r.Use(cfg.AuthenticateMiddleware)

			r.Get("/", cfg.EventHandler.ListEvents)
			r.Post("/", cfg.EventHandler.CreateEvent)
			// static segments before {id}
			r.Get("/export", cfg.EventHandler.ExportEvents)
			r.Get("/participants/{participantId}", cfg.RelationHandler.GetEventsByParticipant)

			r.Get("/{id}", cfg.EventHandler.GetEvent)
			r.Put("/{id}", cfg.EventHandler.UpdateEvent)
			r.Delete("/{id}", cfg.EventHandler.DeleteEvent)

			r.Get("/{eventId}/participants", cfg.RelationHandler.GetParticipantsByEvent)
			r.Post("/{eventId}/participants/{participantId}", cfg.RelationHandler.AddParticipantToEvent)
			r.Delete("/{eventId}/participants/{participantId}", cfg.RelationHandler.RemoveParticipantFromEvent)
		})

		r.Route("/participants", func(r chi.Router) {
			// Public on purpose: the participant detail page is reachable without a session.
			r.Get("/{id}", cfg.ParticipantHandler.GetParticipant)

			r.Group(func(r chi.Router) {
				r.Use(cfg.AuthenticateMiddleware)
				r.Get("/", cfg.ParticipantHandler.ListParticipants)
				r.Post("/", cfg.ParticipantHandler.CreateParticipant)
				r.Put("/{id}", cfg.ParticipantHandler.UpdateParticipant)
				r.Delete("/{id}", cfg.ParticipantHandler.DeleteParticipant)
			})
		})

		r.With(cfg.AuthenticateMiddleware).Get("/relations", cfg.RelationHandler.ListRelations)
		r.With(cfg.AuthenticateMiddleware).Get("/statistics", cfg.StatisticsHandler.GetStatistics)
	})

	return r
}
