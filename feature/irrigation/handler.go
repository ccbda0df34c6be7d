package irrigation

import (
	"irrigation-manager/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for irrigation records.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// RegisterRoutes registers the irrigation routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/irrigation", h.HandleListRecords)
}

// HandleListRecords returns irrigation records, newest first.
// @Summary List Irrigation Records
// @Tags irrigation
// @Produce json
// @Param sector_id query int false "Sector ID filter"
// @Param limit query int false "Maximum records to return (default 100)"
// @Success 200 {array} irrigation.Record
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /irrigation [get]
func (h *Handler) HandleListRecords(c *fiber.Ctx) error {
	sectorID := uint(c.QueryInt("sector_id", 0))
	limit := c.QueryInt("limit", 0)

	records, err := h.repo.ListBySector(c.Context(), sectorID, limit)
	if err != nil {
		l := logger.WithRayID(h.logger, c)
		l.Error("Record listing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(records)
}
