package presenters

import (
	"SaveByte/domain"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func SuccessResponse(c *fiber.Ctx, data any, code int, message string) error {
	return c.Status(code).JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *fiber.Ctx, code int, message string, err error) error {
	res := Response{
		Success: false,
		Message: message,
	}
	if err != nil {
		res.Error = err.Error()
	}
	return c.Status(code).JSON(res)
}

var statusByError = []struct {
	status int
	errs   []error
}{
	{fiber.StatusUnprocessableEntity, []error{
		domain.ErrInvalidExpiryTime,
		domain.ErrInvalidTimeFormat,
		domain.ErrFoodNameRequired,
		domain.ErrInvalidQuantity,
		domain.ErrUserAlreadyExists,
		domain.ErrInvalidDateRange,
		domain.ErrStorageDisabled,
		domain.ErrInvalidImageFormat,
		domain.ErrParseUUID,
		domain.ErrInvalidOtpFormat,
	}},
	{fiber.StatusNotFound, []error{
		domain.ErrFoodNotFound,
		domain.ErrDonationNotFound,
		domain.ErrTransactionNotFound,
		domain.ErrUserNotFound,
		domain.ErrNoAvailableFood,
		domain.ErrNoTransactions,
		domain.ErrNoDonationRecords,
	}},
	{fiber.StatusForbidden, []error{
		domain.ErrInvalidCredentials,
		domain.ErrRoleNotAllowed,
		domain.ErrUserNotAllowed,
	}},
	{fiber.StatusUnauthorized, []error{
		domain.ErrTokenNotFound,
		domain.ErrTokenExpired,
		domain.ErrTokenInvalid,
	}},
	{fiber.StatusConflict, []error{
		domain.ErrFoodNotAvailable,
		domain.ErrActiveTransactionExists,
	}},
	{fiber.StatusBadRequest, []error{
		domain.ErrOtpExpired,
		domain.ErrOtpInvalid,
		domain.ErrNotTransactionParty,
	}},
	{fiber.StatusTooManyRequests, []error{
		domain.ErrOtpAttemptsExceeded,
	}},
}

// StatusFor maps a service error to the HTTP status returned to clients.
// Anything unknown is treated as a persistence failure.
func StatusFor(err error) int {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return fiber.StatusUnprocessableEntity
	}
	for _, group := range statusByError {
		for _, target := range group.errs {
			if errors.Is(err, target) {
				return group.status
			}
		}
	}
	return fiber.StatusInternalServerError
}

// ServiceError writes err with its mapped status. Internal failures are
// reported with the generic fallback message and no error detail.
func ServiceError(c *fiber.Ctx, fallback string, err error) error {
	status := StatusFor(err)
	if status == fiber.StatusInternalServerError {
		return ErrorResponse(c, status, fallback, nil)
	}
	return ErrorResponse(c, status, err.Error(), err)
}
