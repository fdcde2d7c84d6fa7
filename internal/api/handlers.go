package api

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/bilgisen/gazette/internal/config"
	"github.com/bilgisen/gazette/internal/gazette"
	"github.com/bilgisen/gazette/internal/logger"
	"github.com/bilgisen/gazette/internal/middleware"
	"github.com/bilgisen/gazette/internal/models"
	"github.com/bilgisen/gazette/internal/session"
	"github.com/bilgisen/gazette/internal/utils"
	"github.com/bilgisen/gazette/internal/view"
	"github.com/gofiber/fiber/v2"
)

// HighlightsUnavailable is shown when the assistant cannot summarize an issue
const HighlightsUnavailable = "Résumé non disponible."

// Summarizer condenses an issue into key points
type Summarizer interface {
	SummarizeIssue(ctx context.Context, content string) (string, error)
}

type Handlers struct {
	config     *config.Config
	store      *gazette.Store
	sessions   *session.Manager
	summarizer Summarizer
}

// NewHandlers wires the handlers. summarizer may be nil when no assistant
// is configured.
func NewHandlers(cfg *config.Config, store *gazette.Store, sessions *session.Manager, summarizer Summarizer) *Handlers {
	return &Handlers{
		config:     cfg,
		store:      store,
		sessions:   sessions,
		summarizer: summarizer,
	}
}

type navigateRequest struct {
	View string `json:"view" validate:"required"`
}

// HealthCheck handles the /health endpoint
func (h *Handlers) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":   "ok",
		"version":  "1.0.0",
		"time":     time.Now().Format(time.RFC3339),
		"issues":   len(h.store.Issues()),
		"sessions": h.sessions.Len(),
	})
}

// GetIssues handles GET /api/v1/issues
func (h *Handlers) GetIssues(c *fiber.Ctx) error {
	issues := h.store.Issues()
	if issues == nil {
		issues = []models.GazetteIssue{}
	}

	body, err := json.Marshal(issues)
	if err != nil {
		return err
	}

	etag := `"` + utils.Hash(string(body)) + `"`
	c.Set(fiber.HeaderETag, etag)
	if c.Get(fiber.HeaderIfNoneMatch) == etag {
		return c.SendStatus(fiber.StatusNotModified)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	return c.Send(body)
}

// GetIssueByID handles GET /api/v1/issues/:id
func (h *Handlers) GetIssueByID(c *fiber.Ctx) error {
	issue, err := h.store.Issue(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(issue)
}

// GetHighlights handles GET /api/v1/issues/:id/highlights
func (h *Handlers) GetHighlights(c *fiber.Ctx) error {
	issue, err := h.store.Issue(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	resp := fiber.Map{"id": issue.ID, "highlights": HighlightsUnavailable, "available": false}
	if h.summarizer == nil {
		return c.JSON(resp)
	}

	text, err := h.summarizer.SummarizeIssue(c.UserContext(), issue.Content)
	if err != nil {
		logger.Get().Warn().Err(err).Str("id", issue.ID).Msg("Issue highlights unavailable")
		return c.JSON(resp)
	}

	resp["highlights"] = text
	resp["available"] = true
	return c.JSON(resp)
}

// GetNotification handles GET /api/v1/notification
func (h *Handlers) GetNotification(c *fiber.Ctx) error {
	return c.JSON(h.store.Notification())
}

// DismissNotification handles DELETE /api/v1/notification
func (h *Handlers) DismissNotification(c *fiber.Ctx) error {
	h.store.DismissNotification()
	return c.JSON(h.store.Notification())
}

// CreateSession handles POST /api/v1/sessions
func (h *Handlers) CreateSession(c *fiber.Ctx) error {
	s := h.sessions.Create()
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":     s.ID,
		"screen": s.Screen(),
	})
}

// GetScreen handles GET /api/v1/session
func (h *Handlers) GetScreen(c *fiber.Ctx) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}
	return c.JSON(s.Screen())
}

// Navigate handles POST /api/v1/session/navigate
func (h *Handlers) Navigate(c *fiber.Ctx) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}

	req := middleware.Body[navigateRequest](c)
	to, err := view.ParseState(req.View)
	if err != nil {
		return respondError(c, err)
	}

	screen, err := s.Navigate(to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(screen)
}

// ReadIssue handles POST /api/v1/session/read/:id
func (h *Handlers) ReadIssue(c *fiber.Ctx) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}

	screen, err := s.Read(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(screen)
}

// ReadLatest handles POST /api/v1/session/read-latest
func (h *Handlers) ReadLatest(c *fiber.Ctx) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}

	screen, err := s.ReadLatest(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(screen)
}

// Back handles POST /api/v1/session/back
func (h *Handlers) Back(c *fiber.Ctx) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}
	return c.JSON(s.Back())
}

// ToggleAdmin handles POST /api/v1/session/admin
func (h *Handlers) ToggleAdmin(c *fiber.Ctx) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}

	screen := s.ToggleAdmin()
	logger.Get().Info().
		Str("session", s.ID).
		Bool("admin", screen.IsAdmin).
		Msg("Admin role toggled")
	return c.JSON(screen)
}

// SubmitSuggestion handles POST /api/v1/session/suggestions
func (h *Handlers) SubmitSuggestion(c *fiber.Ctx) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}

	req := middleware.Body[models.SuggestionRequest](c)
	suggestion, err := s.SubmitSuggestion(c.UserContext(), req.Topic, req.Description)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(suggestion)
}

// CloseFeedback handles DELETE /api/v1/session/feedback
func (h *Handlers) CloseFeedback(c *fiber.Ctx) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}
	return c.JSON(s.CloseFeedback())
}

// Publish handles POST /api/v1/session/publish
func (h *Handlers) Publish(c *fiber.Ctx) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}

	draft := middleware.Body[models.IssueDraft](c)
	issue, err := s.Publish(c.UserContext(), *draft)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"issue":   issue,
		"message": "Nouveau numéro publié ! Les collaborateurs vont recevoir une notification.",
	})
}

func currentSession(c *fiber.Ctx) (*session.Session, error) {
	s, ok := middleware.CurrentSession(c)
	if !ok {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "session required")
	}
	return s, nil
}

// respondError maps domain errors onto HTTP statuses. Anything unknown is
// left to the fiber error handler.
func respondError(c *fiber.Ctx, err error) error {
	status := 0
	message := err.Error()

	switch {
	case errors.Is(err, gazette.ErrValidation):
		status = fiber.StatusUnprocessableEntity
	case errors.Is(err, gazette.ErrIssueNotFound), errors.Is(err, session.ErrNoIssues):
		status = fiber.StatusNotFound
	case errors.Is(err, view.ErrUnknownView), errors.Is(err, view.ErrIssueRequired):
		status = fiber.StatusBadRequest
	case errors.Is(err, session.ErrRestricted):
		status = fiber.StatusForbidden
		message = view.RestrictedMessage
	case errors.Is(err, session.ErrSubmissionPending):
		status = fiber.StatusConflict
	default:
		return err
	}

	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}
