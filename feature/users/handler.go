package users

import (
	"irrigation-manager/core/logger"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for user administration.
type Handler struct {
	service  *Service
	validate *validator.Validate
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service, validate: validator.New()}
}

// RegisterRoutes registers the user routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/users")
	group.Get("/", h.HandleListUsers)
	group.Post("/", h.HandleCreateUser)
}

// createUserRequest is the payload for user creation.
type createUserRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	FullName string `json:"full_name" validate:"max=128"`
	Role     string `json:"role" validate:"required,oneof=admin agronomist operator"`
}

// HandleListUsers returns all users.
// @Summary List Users
// @Tags users
// @Produce json
// @Success 200 {array} users.User
// @Router /users [get]
func (h *Handler) HandleListUsers(c *fiber.Ctx) error {
	all, err := h.service.List(c.Context())
	if err != nil {
		l := logger.WithRayID(h.service.logger, c)
		l.Error("User listing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(all)
}

// HandleCreateUser creates a user.
// @Summary Create User
// @Tags users
// @Accept json
// @Produce json
// @Success 201 {object} users.User
// @Router /users [post]
func (h *Handler) HandleCreateUser(c *fiber.Ctx) error {
	var req createUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	user := User{Username: req.Username, FullName: req.FullName, Role: req.Role}
	if err := h.service.Create(c.Context(), &user); err != nil {
		l := logger.WithRayID(h.service.logger, c)
		l.Error("User creation failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}
