package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/portfolio-contact-api/internal/dto"
	"github.com/noah-isme/portfolio-contact-api/internal/service"
	"github.com/noah-isme/portfolio-contact-api/internal/utils"
)

// AdminContactHandler exposes the stored contact messages to the site owner.
type AdminContactHandler struct {
	service service.AdminContactService
	logger  zerolog.Logger
}

// NewAdminContactHandler constructs the handler.
func NewAdminContactHandler(service service.AdminContactService, logger zerolog.Logger) *AdminContactHandler {
	return &AdminContactHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_contact_handler").Logger(),
	}
}

// Register attaches routes.
func (h *AdminContactHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
}

func (h *AdminContactHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "pageSize")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page size")
	}

	req := dto.AdminContactListRequest{
		Page:     page,
		PageSize: pageSize,
		Search:   c.Query("search"),
	}

	result, err := h.service.List(c.UserContext(), req)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list contact messages")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list contact messages")
	}

	meta := fiber.Map{
		"pagination": result.Pagination,
		"filters":    fiber.Map{"search": req.Search},
	}

	return utils.OK(c, result.Items, "contact messages retrieved", meta)
}

func (h *AdminContactHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	message, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, service.ErrAdminContactNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "contact message not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Uint("contact_id", id).Msg("failed to fetch contact message")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch contact message")
	}

	return utils.OK(c, message, "contact message retrieved", nil)
}
