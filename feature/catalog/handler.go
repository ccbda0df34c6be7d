package catalog

import (
	"errors"

	"irrigation-manager/core/logger"
	"irrigation-manager/feature/catalog/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the catalog.
type Handler struct {
	service  *Service
	validate *validator.Validate
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service, validate: validator.New()}
}

// RegisterRoutes registers the catalog routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/farms", h.HandleListFarms)
	app.Post("/farms", h.HandleCreateFarm)
	app.Get("/sectors", h.HandleListSectors)
	app.Post("/sectors", h.HandleCreateSector)
	app.Get("/equipment", h.HandleListEquipment)
	app.Post("/equipment", h.HandleCreateEquipment)
}

// createFarmRequest is the payload for farm creation.
type createFarmRequest struct {
	Name     string `json:"name" validate:"required,max=128"`
	Location string `json:"location" validate:"max=255"`
}

// createSectorRequest is the payload for sector creation.
type createSectorRequest struct {
	FarmID uint    `json:"farm_id" validate:"required"`
	Name   string  `json:"name" validate:"required,max=128"`
	AreaHa float64 `json:"area_ha" validate:"gte=0"`
}

// createEquipmentRequest is the payload for equipment creation.
type createEquipmentRequest struct {
	FarmID   uint    `json:"farm_id" validate:"required"`
	Name     string  `json:"name" validate:"required,max=128"`
	Kind     string  `json:"kind" validate:"max=64"`
	FlowRate float64 `json:"flow_rate" validate:"gte=0"`
}

// HandleListFarms returns all farms.
// @Summary List Farms
// @Tags catalog
// @Produce json
// @Success 200 {array} models.Farm
// @Router /farms [get]
func (h *Handler) HandleListFarms(c *fiber.Ctx) error {
	farms, err := h.service.ListFarms(c.Context())
	if err != nil {
		l := logger.WithRayID(h.service.logger, c)
		l.Error("Farm listing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(farms)
}

// HandleCreateFarm creates a farm.
// @Summary Create Farm
// @Tags catalog
// @Accept json
// @Produce json
// @Success 201 {object} models.Farm
// @Router /farms [post]
func (h *Handler) HandleCreateFarm(c *fiber.Ctx) error {
	var req createFarmRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	farm := models.Farm{Name: req.Name, Location: req.Location}
	if err := h.service.CreateFarm(c.Context(), &farm); err != nil {
		l := logger.WithRayID(h.service.logger, c)
		l.Error("Farm creation failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(farm)
}

// HandleListSectors returns sectors, optionally filtered by farm_id.
// @Summary List Sectors
// @Tags catalog
// @Produce json
// @Param farm_id query int false "Farm ID filter"
// @Success 200 {array} models.Sector
// @Router /sectors [get]
func (h *Handler) HandleListSectors(c *fiber.Ctx) error {
	farmID := uint(c.QueryInt("farm_id", 0))
	sectors, err := h.service.ListSectors(c.Context(), farmID)
	if err != nil {
		l := logger.WithRayID(h.service.logger, c)
		l.Error("Sector listing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(sectors)
}

// HandleCreateSector creates a sector.
// @Summary Create Sector
// @Tags catalog
// @Accept json
// @Produce json
// @Success 201 {object} models.Sector
// @Router /sectors [post]
func (h *Handler) HandleCreateSector(c *fiber.Ctx) error {
	var req createSectorRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	sector := models.Sector{FarmID: req.FarmID, Name: req.Name, AreaHa: req.AreaHa}
	if err := h.service.CreateSector(c.Context(), &sector); err != nil {
		if errors.Is(err, ErrFarmNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		l := logger.WithRayID(h.service.logger, c)
		l.Error("Sector creation failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(sector)
}

// HandleListEquipment returns equipment, optionally filtered by farm_id.
// @Summary List Equipment
// @Tags catalog
// @Produce json
// @Param farm_id query int false "Farm ID filter"
// @Success 200 {array} models.Equipment
// @Router /equipment [get]
func (h *Handler) HandleListEquipment(c *fiber.Ctx) error {
	farmID := uint(c.QueryInt("farm_id", 0))
	items, err := h.service.ListEquipment(c.Context(), farmID)
	if err != nil {
		l := logger.WithRayID(h.service.logger, c)
		l.Error("Equipment listing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(items)
}

// HandleCreateEquipment creates an equipment item.
// @Summary Create Equipment
// @Tags catalog
// @Accept json
// @Produce json
// @Success 201 {object} models.Equipment
// @Router /equipment [post]
func (h *Handler) HandleCreateEquipment(c *fiber.Ctx) error {
	var req createEquipmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	eq := models.Equipment{FarmID: req.FarmID, Name: req.Name, Kind: req.Kind, FlowRate: req.FlowRate}
	if err := h.service.CreateEquipment(c.Context(), &eq); err != nil {
		if errors.Is(err, ErrFarmNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		l := logger.WithRayID(h.service.logger, c)
		l.Error("Equipment creation failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(eq)
}
