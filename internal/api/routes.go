package api

import (
	"github.com/bilgisen/gazette/internal/middleware"
	"github.com/bilgisen/gazette/internal/models"
	"github.com/gofiber/fiber/v2"
)

// SetupRoutes configures all the routes for the application
func SetupRoutes(app *fiber.App, h *Handlers) {
	// API group with versioning
	api := app.Group("/api/v1")

	// Health check endpoint
	api.Get("/health", h.HealthCheck)

	// Issue endpoints
	issues := api.Group("/issues")
	{
		issues.Get("", h.GetIssues)
		issues.Get("/:id", h.GetIssueByID)
		issues.Get("/:id/highlights", h.GetHighlights)
	}

	// The notification slot is shared by every reader
	api.Get("/notification", h.GetNotification)
	api.Delete("/notification", h.DismissNotification)

	api.Post("/sessions", h.CreateSession)

	// Per-tab view state
	sess := api.Group("/session", middleware.RequireSession(middleware.SessionConfig{
		Manager: h.sessions,
	}))
	{
		sess.Get("", h.GetScreen)
		sess.Post("/navigate", middleware.ValidateBody[navigateRequest](), h.Navigate)
		sess.Post("/read-latest", h.ReadLatest)
		sess.Post("/read/:id", h.ReadIssue)
		sess.Post("/back", h.Back)
		sess.Post("/admin", h.ToggleAdmin)
		sess.Post("/suggestions", middleware.ValidateBody[models.SuggestionRequest](), h.SubmitSuggestion)
		sess.Delete("/feedback", h.CloseFeedback)
		sess.Post("/publish", middleware.ValidateBody[models.IssueDraft](), h.Publish)
	}

	// 404 Handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Endpoint not found",
		})
	})
}
