package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/hdnotes/hd-notes-api/internal/api/auth"
	"github.com/hdnotes/hd-notes-api/internal/api/notes"
)

// Config contains dependencies needed for the router setup.
type Config struct {
	AuthHandler            *auth.Handler
	NotesHandler           *notes.Handler
	AuthenticateMiddleware func(http.Handler) http.Handler
	MetricsHandler         http.Handler
	AllowedOrigins         []string
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) are expected to be
// applied before mounting this router.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	// Public auth routes - no bearer token required.
	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", cfg.AuthHandler.Signup)
		r.Post("/login", cfg.AuthHandler.Login)
		r.Post("/verify-otp", cfg.AuthHandler.VerifyOTP)
		r.Post("/google", cfg.AuthHandler.GoogleAuth)
	})

	// Protected routes.
	r.Group(func(r chi.Router) {
		r.Use(cfg.AuthenticateMiddleware)

		r.Route("/notes", func(r chi.Router) {
			r.Get("/", cfg.NotesHandler.ListNotes)
			r.Post("/", cfg.NotesHandler.CreateNote)
			r.Delete("/{id}", cfg.NotesHandler.DeleteNote)
		})
	})

	return r
}
