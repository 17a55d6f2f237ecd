package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/portfolio-contact-api/internal/dto"
	"github.com/noah-isme/portfolio-contact-api/internal/service"
	"github.com/noah-isme/portfolio-contact-api/internal/utils"
)

const (
	msgInvalidBody = "Invalid request body"
	msgSendFailed  = "Failed to send email"
)

// ContactHandler handles contact submissions.
type ContactHandler struct {
	service service.ContactService
	logger  zerolog.Logger
}

// NewContactHandler constructs a contact handler.
func NewContactHandler(service service.ContactService, logger zerolog.Logger) *ContactHandler {
	return &ContactHandler{
		service: service,
		logger:  logger.With().Str("component", "contact_handler").Logger(),
	}
}

// Register wires contact routes.
func (h *ContactHandler) Register(router fiber.Router) {
	router.Post("", h.submit)
}

func (h *ContactHandler) submit(c *fiber.Ctx) error {
	logger := requestLogger(h.logger, c)

	// The body is always JSON, whatever Content-Type the caller sent.
	var payload dto.ContactRequest
	if err := c.App().Config().JSONDecoder(c.Body(), &payload); err != nil {
		logger.Warn().Err(err).Msg("invalid contact payload")
		return utils.SendError(c, fiber.StatusBadRequest, msgInvalidBody)
	}

	response, err := h.service.Submit(c.UserContext(), payload)
	if err != nil {
		var validationErr *service.ValidationError
		if errors.As(err, &validationErr) {
			return utils.SendError(c, fiber.StatusBadRequest, validationErr.Error())
		}

		logger.Error().Err(err).Msg("failed to process contact submission")
		return utils.SendError(c, fiber.StatusInternalServerError, msgSendFailed)
	}

	return c.Status(fiber.StatusOK).JSON(response)
}
