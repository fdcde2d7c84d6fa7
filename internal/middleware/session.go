package middleware

import (
	"errors"

	"github.com/bilgisen/gazette/internal/logger"
	"github.com/bilgisen/gazette/internal/session"
	"github.com/gofiber/fiber/v2"
)

// SessionLocalKey is where the resolved *session.Session is stored
const SessionLocalKey = "session"

// SessionConfig defines the config for the session middleware
type SessionConfig struct {
	// Next defines a function to skip middleware.
	// Optional. Default: nil
	Next func(c *fiber.Ctx) bool

	// Manager resolves session ids.
	// Required.
	Manager *session.Manager

	// ErrorHandler is executed for a missing or unknown session.
	// Optional. Default: 401 Invalid or missing session
	ErrorHandler fiber.ErrorHandler

	// Header is the header carrying the session id.
	// Optional. Default: "X-Session-ID"
	Header string
}

// SessionConfigDefault is the default config
var SessionConfigDefault = SessionConfig{
	ErrorHandler: func(c *fiber.Ctx, err error) error {
		logger.Get().Warn().
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("ip", c.IP()).
			Err(err).
			Msg("Session lookup failed")

		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid or missing session",
		})
	},
	Header: "X-Session-ID",
}

// RequireSession resolves the session named by the request header
func RequireSession(config SessionConfig) fiber.Handler {
	cfg := config
	if cfg.Manager == nil {
		panic("middleware: RequireSession needs a session manager")
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = SessionConfigDefault.ErrorHandler
	}
	if cfg.Header == "" {
		cfg.Header = SessionConfigDefault.Header
	}

	return func(c *fiber.Ctx) error {
		if cfg.Next != nil && cfg.Next(c) {
			return c.Next()
		}

		id := c.Get(cfg.Header)
		if id == "" {
			return cfg.ErrorHandler(c, errors.New("missing session id"))
		}

		s, err := cfg.Manager.Get(id)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		c.Locals(SessionLocalKey, s)
		return c.Next()
	}
}

// CurrentSession returns the session stored by RequireSession
func CurrentSession(c *fiber.Ctx) (*session.Session, bool) {
	s, ok := c.Locals(SessionLocalKey).(*session.Session)
	return s, ok
}
