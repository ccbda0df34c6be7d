package audit

import (
	"irrigation-manager/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the audit trail.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the audit routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/audit", h.HandleListEntries)
}

// HandleListEntries returns audit entries, newest first.
// @Summary List Audit Entries
// @Description List audit trail entries with optional entity/user filters.
// @Tags audit
// @Produce json
// @Param entity query string false "Entity name filter (e.g. 'IrrigationRecord')"
// @Param user_id query int false "User ID filter"
// @Param limit query int false "Maximum entries to return (default 100)"
// @Success 200 {array} audit.Entry
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /audit [get]
func (h *Handler) HandleListEntries(c *fiber.Ctx) error {
	filter := Filter{
		EntityName: c.Query("entity"),
		UserID:     uint(c.QueryInt("user_id", 0)),
		Limit:      c.QueryInt("limit", 0),
	}

	entries, err := h.service.List(c.Context(), filter)
	if err != nil {
		l := logger.WithRayID(h.service.logger, c)
		l.Error("Audit listing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(entries)
}
