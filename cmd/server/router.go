package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tasknest/tasknest-api/internal/api"
	apiMiddleware "github.com/tasknest/tasknest-api/internal/api/middleware"
)

// setupRouter configures the application router with all routes and
// middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	userHandler := api.NewUserHandler(app.userService, app.profileService, app.logger)
	taskHandler := api.NewTaskHandler(app.taskService, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/user", func(r chi.Router) {
		// Public endpoints
		r.Post("/register", userHandler.Register)
		r.Post("/login", userHandler.Login)

		// The caller's own account
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Get("/", userHandler.Profile)
			r.Get("/productivity", userHandler.Productivity)
			r.Put("/", userHandler.Update)
			r.Delete("/", userHandler.Delete)
		})
	})

	r.Route("/task", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)
		r.Post("/create", taskHandler.Create)
		r.Get("/listAll", taskHandler.ListAll)
		r.Get("/{id}", taskHandler.GetByID)
		r.Put("/{id}", taskHandler.Update)
		r.Patch("/{id}/complete", taskHandler.Complete)
		r.Delete("/{id}", taskHandler.Delete)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
