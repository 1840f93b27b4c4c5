package handlers

import (
	"SaveByte/domain"
	"SaveByte/internal/api/presenters"
	"SaveByte/pkg/notification"
	"SaveByte/pkg/transaction"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	TransactionHandler interface {
		AcceptFood(c *fiber.Ctx) error
		CancelFood(c *fiber.Ctx) error
		VerifyOtp(c *fiber.Ctx) error
		GetTransaction(c *fiber.Ctx) error
		GetDonorTransactions(c *fiber.Ctx) error
		GetReceiverTransactions(c *fiber.Ctx) error
	}

	transactionHandler struct {
		transactionService transaction.TransactionService
		dispatcher         notification.Dispatcher
		validator          *validator.Validate
	}
)

func NewTransactionHandler(transactionService transaction.TransactionService, dispatcher notification.Dispatcher, validator *validator.Validate) TransactionHandler {
	return &transactionHandler{
		transactionService: transactionService,
		dispatcher:         dispatcher,
		validator:          validator,
	}
}

func (h *transactionHandler) AcceptFood(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	role, _ := c.Locals("role").(string)

	res, events, err := h.transactionService.AcceptFood(c.Context(), c.Params("foodId"), userID, role)
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedAcceptFood, err)
	}
	h.dispatcher.Dispatch(c.UserContext(), events)

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessAcceptFood)
}

func (h *transactionHandler) CancelFood(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	events, err := h.transactionService.RejectFood(c.Context(), c.Params("foodId"), userID)
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedRejectFood, err)
	}
	h.dispatcher.Dispatch(c.UserContext(), events)

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessRejectFood)
}

func (h *transactionHandler) VerifyOtp(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.VerifyOtpRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusUnprocessableEntity, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusUnprocessableEntity, domain.MessageFailedBodyRequest, err)
	}

	events, err := h.transactionService.VerifyOtp(c.Context(), c.Params("transactionId"), userID, req.OTP)
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedVerifyOtp, err)
	}
	h.dispatcher.Dispatch(c.UserContext(), events)

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessVerifyOtp)
}

func (h *transactionHandler) GetTransaction(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.transactionService.GetTransaction(c.Context(), c.Params("transactionId"), userID)
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedGetTransactions, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetTransactions)
}

func (h *transactionHandler) GetDonorTransactions(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.transactionService.ListByDonor(c.Context(), userID, c.Params("id"))
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedGetTransactions, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetTransactions)
}

func (h *transactionHandler) GetReceiverTransactions(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.transactionService.ListByReceiver(c.Context(), userID, c.Params("id"))
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedGetTransactions, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetTransactions)
}
