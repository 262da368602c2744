package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"interviewhub/internal/config"
	"interviewhub/internal/domain"
	"interviewhub/internal/observability"
	"interviewhub/internal/security"
	"interviewhub/internal/service"
	"interviewhub/internal/store"
	"interviewhub/internal/ws"
)

// NewRouter constructs the main HTTP router and wires routes, services and
// middleware.
func NewRouter(
	cfg *config.Config,
	repos *store.Repositories,
	hub *ws.Hub,
	tokenSvc *security.TokenService,
	metrics *observability.Metrics,
	log zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(MetricsMiddleware(metrics))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	deliveryRouter := service.NewDeliveryRouter(
		repos.Users, repos.Groups, repos.Messages, repos.GroupMessages,
		hub, metrics, log,
	)
	reader := service.NewConversationReader(
		repos.Messages, repos.GroupMessages, repos.Groups,
		cfg.DefaultPageSize, cfg.MaxPageSize, log,
	)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		// The request deadline stays inside /api: the websocket connection at
		// /ws reuses its request context for the lifetime of the session, and
		// a deadline here would kill every send after it elapses.
		r.Use(chimiddleware.Timeout(cfg.RequestTimeout))

		// Public identity lookup, used by profile cards.
		r.Get("/users/{userID}", handleGetUser(repos.Users))

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(tokenSvc, repos.Users))

			r.Route("/messages", func(r chi.Router) {
				r.Post("/", handleSendMessage(deliveryRouter))
				r.Post("/read", handleMarkRead(reader))
				r.Get("/{peerID}", handleDirectHistory(reader))
				r.Delete("/{messageID}", handleDeleteMessage(reader))
			})

			r.Route("/groups", func(r chi.Router) {
				r.Get("/", handleListGroups(reader))
				r.Get("/{groupID}/messages", handleGroupHistory(reader))
				r.Post("/{groupID}/messages", handleSendGroupMessage(deliveryRouter))
				r.Delete("/messages/{messageID}", handleDeleteGroupMessage(reader))
			})
		})
	})

	// WebSocket endpoint
	r.Get("/ws", ws.MakeHandler(
		hub, repos.Users, repos.Groups, deliveryRouter,
		cfg.CORSOrigins, cfg.SendQueueSize, log,
	))

	return r
}

// writeJSON is a small helper to send JSON responses.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps sentinel errors to HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidPayload):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrStoreUnavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
