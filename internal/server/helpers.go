package server

import (
	"errors"
	"log/slog"

	"quill/internal/middleware"
	"quill/internal/models"
	appsession "quill/internal/session"

	"github.com/gofiber/fiber/v2"
)

// ResolveSession answers "is someone logged in, and who" before any handler
// logic runs. The user id, if any, lands in c.Locals("userID").
func (s *Server) ResolveSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := s.sessions.Get(c)
		if err != nil {
			// A broken session store means the visitor is treated as logged out.
			middleware.Logger.WarnContext(c.UserContext(), "session resolution failed",
				slog.String("error", err.Error()))
			return c.Next()
		}
		if uid, ok := sess.Get(appsession.UserIDKey).(uint); ok && uid != 0 {
			c.Locals("userID", uid)
		}
		return c.Next()
	}
}

// currentUserID returns the authenticated user's id, or 0 when logged out.
func (s *Server) currentUserID(c *fiber.Ctx) uint {
	uid, _ := c.Locals("userID").(uint)
	return uid
}

// requireAdmin is the explicit authorization gate for post management.
// Only the configured admin identity (the first registered user) passes.
func (s *Server) requireAdmin(c *fiber.Ctx) error {
	if s.currentUserID(c) != s.config.AdminUserID {
		return models.NewForbiddenError()
	}
	return nil
}

// establishSession logs the given user in, regenerating the session id.
func (s *Server) establishSession(c *fiber.Ctx, userID uint) error {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return err
	}
	if err := sess.Regenerate(); err != nil {
		return err
	}
	sess.Set(appsession.UserIDKey, userID)
	if err := sess.Save(); err != nil {
		return err
	}
	c.Locals("userID", userID)
	return nil
}

// destroySession tears down the current session unconditionally.
func (s *Server) destroySession(c *fiber.Ctx) {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return
	}
	_ = sess.Destroy()
	c.Locals("userID", nil)
}

// flash stores a one-time message that survives the next redirect.
func (s *Server) flash(c *fiber.Ctx, message string) {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return
	}
	sess.Set(appsession.FlashKey, message)
	if err := sess.Save(); err != nil {
		middleware.Logger.WarnContext(c.UserContext(), "failed to save flash message",
			slog.String("error", err.Error()))
	}
}

// takeFlash returns the pending flash message, consuming it.
func (s *Server) takeFlash(c *fiber.Ctx) string {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return ""
	}
	message, _ := sess.Get(appsession.FlashKey).(string)
	if message != "" {
		sess.Delete(appsession.FlashKey)
		_ = sess.Save()
	}
	return message
}

// render wraps c.Render, injecting login status and any pending flash message
// so every template can show them.
func (s *Server) render(c *fiber.Ctx, name string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	data["LoggedIn"] = s.currentUserID(c) != 0
	if _, ok := data["Flash"]; !ok {
		data["Flash"] = s.takeFlash(c)
	}
	return c.Render(name, data)
}

// parseID extracts a route parameter by name as a positive uint.
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		return 0, models.NewValidationError("Invalid post ID")
	}
	return uint(id), nil
}

// errorHandler renders the error page for every error a handler returns.
// Authorization failures stay bare 403s with no redirect and no flash.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "Internal server error"

	var appErr *models.AppError
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &appErr):
		status = appErr.Status
		message = appErr.Message
	case errors.As(err, &fiberErr):
		status = fiberErr.Code
		message = fiberErr.Message
	}

	if status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request error",
			slog.Int("status", status),
			slog.String("error", err.Error()))
	}

	c.Status(status)
	if renderErr := c.Render("error", fiber.Map{
		"Status":   status,
		"Message":  message,
		"LoggedIn": s.currentUserID(c) != 0,
		"Flash":    "",
	}); renderErr != nil {
		return c.SendString(message)
	}
	return nil
}
