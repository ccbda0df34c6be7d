package sync

import (
	"errors"

	"irrigation-manager/core/logger"
	"irrigation-manager/feature/users"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for batch synchronization.
type Handler struct {
	service     *Service
	actorHeader string
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, actorHeader string) *Handler {
	return &Handler{service: service, actorHeader: actorHeader}
}

// RegisterRoutes registers the sync routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Post("/sync/irrigation", h.HandleSyncIrrigation)
}

// syncRequest is the payload posted by a mobile client after reconnecting.
type syncRequest struct {
	Items []BatchItem `json:"items"`
}

// HandleSyncIrrigation reconciles a batch of offline-collected irrigation
// records.
// @Summary Sync Irrigation Records
// @Description Upsert a batch of irrigation records keyed by client local id. Items succeed or fail independently; the response reports each item's outcome in input order.
// @Tags sync
// @Accept json
// @Produce json
// @Param X-Actor header string true "Username performing the sync"
// @Param request body syncRequest true "Batch of irrigation records"
// @Success 200 {object} sync.BatchResult
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Unknown actor"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /sync/irrigation [post]
func (h *Handler) HandleSyncIrrigation(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	actor := c.Get(h.actorHeader)
	if actor == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "missing actor header: " + h.actorHeader,
		})
	}

	var req syncRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	result, err := h.service.ProcessBatch(c.Context(), actor, req.Items)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("Sync batch failed", zap.String("actor", actor), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(result)
}
