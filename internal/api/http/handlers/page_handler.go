package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/daily-report-service/internal/auth"
)

// PageHandler serves the page-style routes guarded by a login redirect.
type PageHandler struct{}

// NewPageHandler constructs handler.
func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

// Dashboard handles GET /dashboard.
func (h *PageHandler) Dashboard(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return c.Redirect("/login", fiber.StatusFound)
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user":           meResponse(identity),
			"can_review":     auth.IsManager(identity),
			"can_manage_all": auth.IsAdmin(identity),
		},
	})
}
