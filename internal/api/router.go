package api

import (
	"net/http"
	"time"
	"tutorhub-backend/internal/config"
	"tutorhub-backend/internal/handlers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterDependencies holds all the dependencies required by the router setup,
// primarily handlers and configuration.
type RouterDependencies struct {
	AuthHandler    *handlers.AuthHandler
	MessageHandler *handlers.MessageHandlers
	UserHandler    *handlers.UserHandlers
	HealthHandler  *handlers.HealthHandler
	TutorHandler   *handlers.TutorHandlers

	// Optional. A nil limiter disables rate limiting for its routes.
	AuthLimiter *LimiterStore
	SendLimiter *LimiterStore

	Config *config.Config
}

// NewRouter creates and configures the main Chi router for the application.
func NewRouter(deps RouterDependencies) *chi.Mux {
	if deps.AuthHandler == nil || deps.MessageHandler == nil || deps.UserHandler == nil ||
		deps.HealthHandler == nil || deps.TutorHandler == nil {
		panic("handler dependency is nil in router setup")
	}

	r := chi.NewRouter()

	// --- Base Middleware Stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	// --- Public Routes (No JWT Required) ---
	r.Get("/health", deps.HealthHandler.HandleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			if deps.AuthLimiter != nil {
				r.Use(RateLimitMiddleware(deps.AuthLimiter, KeyByIP))
			}
			r.Post("/signup", deps.AuthHandler.HandleSignup)
			r.Post("/login", deps.AuthHandler.HandleLogin)
		})

		r.Get("/subjects", deps.TutorHandler.HandleListSubjects)
		r.Get("/search/tutors", deps.TutorHandler.HandleSearchTutors)
		r.Get("/search/tutors/by-subject", deps.TutorHandler.HandleSearchBySubject)

		// --- Authenticated Routes (JWT Required) ---
		r.Group(func(r chi.Router) {
			r.Use(JwtAuthMiddleware(deps.Config.JWTSecret))

			r.Get("/profile", deps.AuthHandler.HandleProfile)
			r.Put("/profile", deps.AuthHandler.HandleUpdateProfile)
			r.Get("/users", deps.UserHandler.HandleSearchUsers)
			r.Post("/tutors/applications", deps.TutorHandler.HandleApply)

			r.Route("/messages", func(r chi.Router) {
				send := http.Handler(http.HandlerFunc(deps.MessageHandler.HandleSendMessage))
				if deps.SendLimiter != nil {
					send = RateLimitMiddleware(deps.SendLimiter, KeyByCaller)(send)
				}
				r.Method(http.MethodPost, "/", send)
				r.Get("/", deps.MessageHandler.HandleGetInbox)
				r.Get("/received", deps.MessageHandler.HandleGetReceived)
			})

			r.Get("/conversations/{counterpart}", deps.MessageHandler.HandleGetConversation)
		})
	})

	return r
}
