package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/vaughan-dsouza/authapi/internal/logging"
	"github.com/vaughan-dsouza/authapi/internal/middleware"
)

// RouterDeps is everything NewRouter wires together.
type RouterDeps struct {
	Handler   *Handler
	Validator middleware.TokenValidator
	Logger    logging.Logger
	Now       func() time.Time
	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
	// TokenRejected is called with a reason for each refused bearer token.
	TokenRejected func(reason string)
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(d.Logger))
	r.Use(chimw.Recoverer)

	// Public
	r.Get("/health", Health)
	r.Post("/api/register", d.Handler.Auth.Register)
	r.Post("/api/login", d.Handler.Auth.Login)
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics)
	}

	// Protected
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(d.Validator, d.Now, d.TokenRejected))

		r.Get("/api/users", d.Handler.Users.ListUsers)
		r.Get("/api/users/{id}", d.Handler.Users.GetUser)
	})

	return r
}
