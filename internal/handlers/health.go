package handlers

import (
	"context"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Check pings one dependency.
type Check func(ctx context.Context) error

type HealthHandler struct {
	version string
	checks  map[string]Check
	timeout time.Duration
}

func NewHealthHandler(version string, checks map[string]Check) *HealthHandler {
	return &HealthHandler{version: version, checks: checks, timeout: 2 * time.Second}
}

// HealthCheck handles GET /health. Any failing dependency turns the status
// into 503.
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status, code := "ok", fiber.StatusOK
	services := fiber.Map{}
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			services[name] = "unavailable"
			status, code = "degraded", fiber.StatusServiceUnavailable
			continue
		}
		services[name] = "connected"
	}

	return c.Status(code).JSON(fiber.Map{
		"status":   status,
		"version":  h.version,
		"services": services,
	})
}
