package controllers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ChorusHQ/Chorus/app/models"
	"github.com/ChorusHQ/Chorus/internal/pkg/apperror"
	"github.com/ChorusHQ/Chorus/internal/pkg/usercontext"
)

// actorFromContext returns the authenticated actor id and platform role.
func actorFromContext(c *fiber.Ctx) (uint, string) {
	userCtx := usercontext.GetUserContext(c)
	role := models.ROLE_USER
	if userCtx.IsAdmin {
		role = models.ROLE_ADMIN
	}
	return userCtx.UserID, role
}

// respondError maps domain error kinds to HTTP status codes.
func respondError(c *fiber.Ctx, err error) error {
	switch apperror.KindOf(err) {
	case apperror.KindNotFound:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": err.Error()})
	case apperror.KindForbidden:
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden", "message": err.Error()})
	case apperror.KindInvalidOperation, apperror.KindValidation:
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "unprocessable", "message": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Unexpected error"})
	}
}

func parseUintParam(c *fiber.Ctx, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil {
		return 0, apperror.Invalidf("invalid %s", name)
	}
	return uint(v), nil
}

// parseListValues splits a repeated or comma-separated query value.
func parseListValues(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseTimeQuery(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, apperror.Invalidf("%s must be RFC 3339", name)
	}
	return &t, nil
}

// GetClientIP determines the actual client IP address considering proxies.
func GetClientIP(c *fiber.Ctx) string {
	if cfIP := c.Get("CF-Connecting-IP"); cfIP != "" {
		return cfIP
	}
	if xff := c.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	return c.IP()
}
