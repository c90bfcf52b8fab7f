package api

import (
	"crypto/subtle"
	"errors"
	"log/slog"
	"strings"

	"churchdirectory/internal/metrics"
	"churchdirectory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login checks the static admin credentials and opens a session. The check is
// constant-time to avoid leaking which half was wrong.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Username and password are required",
		})
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Username and password are required",
		})
	}

	if err := h.limits.CheckLogin(c.Context(), req.Username); err != nil {
		if errors.Is(err, service.ErrTooManyAttempts) {
			metrics.Logins.WithLabelValues("throttled").Inc()
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many login attempts. Please try again later.",
			})
		}
		slog.Error("Login attempt check failed", "error", err)
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(h.cfg.Auth.AdminUsername))
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.cfg.Auth.AdminPassword))
	if userOK&passOK != 1 {
		metrics.Logins.WithLabelValues("failure").Inc()
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid username or password",
		})
	}

	sess, err := h.sessions.Get(c)
	if err != nil {
		slog.Error("Failed to get session", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create session",
		})
	}
	sess.Set("username", req.Username)
	if err := sess.Save(); err != nil {
		slog.Error("Failed to save session", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save session",
		})
	}

	h.limits.ResetLogin(c.Context(), req.Username)
	metrics.Logins.WithLabelValues("success").Inc()

	return c.JSON(fiber.Map{
		"message": "Logged in",
	})
}

func (h *Handler) Logout(c *fiber.Ctx) error {
	sess, err := h.sessions.Get(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Session error",
		})
	}
	if err := sess.Destroy(); err != nil {
		slog.Error("Failed to destroy session", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to end session",
		})
	}
	return c.JSON(fiber.Map{
		"message": "Logged out",
	})
}
