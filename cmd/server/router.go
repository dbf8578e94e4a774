package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/stringerc/syncscript-backend/internal/api"
	apiMiddleware "github.com/stringerc/syncscript-backend/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(
		app.userStore,
		app.jwtService,
		app.passwordHasher,
		app.passwordVerifier,
	)
	taskHandler := api.NewTaskHandler(app.taskService)
	energyHandler := api.NewEnergyHandler(app.energyService)
	projectHandler := api.NewProjectHandler(app.projectService)
	teamHandler := api.NewTeamHandler(app.teamService)
	depHandler := api.NewDependencyHandler(app.depService)
	apiKeyHandler := api.NewAPIKeyHandler(app.apiKeyStore)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)
	apiKeyMiddleware := apiMiddleware.NewAPIKeyMiddleware(app.apiKeyStore)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.Refresh)

		// Session-authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Task endpoints
			r.Post("/tasks", taskHandler.Create)
			r.Get("/tasks", taskHandler.List)
			r.Get("/tasks/suggestions", taskHandler.Suggestions)
			r.Get("/tasks/{id}", taskHandler.Get)
			r.Patch("/tasks/{id}", taskHandler.Update)
			r.Delete("/tasks/{id}", taskHandler.Delete)
			r.Post("/tasks/{id}/complete", taskHandler.Complete)

			// Task dependency endpoints
			r.Post("/tasks/{id}/dependencies", depHandler.Create)
			r.Get("/tasks/{id}/dependencies", depHandler.List)
			r.Delete("/tasks/{id}/dependencies/{dependsOnID}", depHandler.Delete)

			// Energy log endpoints
			r.Post("/energy", energyHandler.Log)
			r.Get("/energy", energyHandler.List)
			r.Get("/energy/pattern", energyHandler.Pattern)
			r.Get("/energy/insights", energyHandler.Insights)
			r.Get("/energy/summary", energyHandler.Summary)

			// Project endpoints
			r.Post("/projects", projectHandler.Create)
			r.Get("/projects", projectHandler.List)
			r.Get("/projects/{id}", projectHandler.Get)
			r.Put("/projects/{id}", projectHandler.Update)
			r.Delete("/projects/{id}", projectHandler.Delete)

			// Team endpoints
			r.Post("/teams", teamHandler.Create)
			r.Get("/teams", teamHandler.List)
			r.Get("/teams/{id}", teamHandler.Get)
			r.Delete("/teams/{id}", teamHandler.Delete)
			r.Post("/teams/{id}/members", teamHandler.AddMember)
			r.Get("/teams/{id}/members", teamHandler.ListMembers)
			r.Delete("/teams/{id}/members/{userID}", teamHandler.RemoveMember)

			// API key management endpoints
			r.Post("/keys", apiKeyHandler.Create)
			r.Get("/keys", apiKeyHandler.List)
			r.Delete("/keys/{id}", apiKeyHandler.Delete)
		})

		// Device routes authenticated with API keys. Wearables and other
		// integrations push energy readings here.
		r.Group(func(r chi.Router) {
			r.Use(apiKeyMiddleware.Authenticate)

			r.Post("/device/energy", energyHandler.Log)
			r.Get("/device/energy/pattern", energyHandler.Pattern)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
