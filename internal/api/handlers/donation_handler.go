package handlers

import (
	"SaveByte/domain"
	"SaveByte/internal/api/presenters"
	"SaveByte/pkg/donation"

	"github.com/gofiber/fiber/v2"
)

type (
	DonationHandler interface {
		GetWastageReport(c *fiber.Ctx) error
	}

	donationHandler struct {
		donationService donation.DonationService
	}
)

func NewDonationHandler(donationService donation.DonationService) DonationHandler {
	return &donationHandler{donationService: donationService}
}

func (h *donationHandler) GetWastageReport(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	report, err := h.donationService.WastageReport(c.Context(), userID, c.Params("startDate"), c.Params("endDate"))
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedGetWastageReport, err)
	}

	return presenters.SuccessResponse(c, report, fiber.StatusOK, domain.MessageSuccessGetWastageReport)
}
