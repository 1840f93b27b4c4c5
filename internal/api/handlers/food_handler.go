package handlers

import (
	"SaveByte/domain"
	"SaveByte/internal/api/presenters"
	"SaveByte/pkg/food"
	"SaveByte/pkg/notification"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	FoodHandler interface {
		DonateFood(c *fiber.Ctx) error
		UpdateFood(c *fiber.Ctx) error
		DeleteFood(c *fiber.Ctx) error
		UploadFoodImage(c *fiber.Ctx) error
		GetFood(c *fiber.Ctx) error
		GetDonatedFoods(c *fiber.Ctx) error
		GetAvailableFoods(c *fiber.Ctx) error
	}

	foodHandler struct {
		foodService food.FoodService
		dispatcher  notification.Dispatcher
		validator   *validator.Validate
	}
)

func NewFoodHandler(foodService food.FoodService, dispatcher notification.Dispatcher, validator *validator.Validate) FoodHandler {
	return &foodHandler{
		foodService: foodService,
		dispatcher:  dispatcher,
		validator:   validator,
	}
}

func (h *foodHandler) DonateFood(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.FoodRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusUnprocessableEntity, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusUnprocessableEntity, domain.MessageFailedBodyRequest, err)
	}

	res, events, err := h.foodService.CreateListing(c.Context(), userID, *req)
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedAddFood, err)
	}
	// The fasthttp request context is recycled once the handler returns.
	h.dispatcher.Dispatch(c.UserContext(), events)

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessAddFood)
}

func (h *foodHandler) UpdateFood(c *fiber.Ctx) error {
	foodID := c.Params("foodId")
	req := new(domain.UpdateFoodRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusUnprocessableEntity, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusUnprocessableEntity, domain.MessageFailedBodyRequest, err)
	}

	res, err := h.foodService.UpdateListing(c.Context(), foodID, *req)
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedUpdateFood, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateFood)
}

func (h *foodHandler) DeleteFood(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	foodID := c.Params("foodId")

	events, err := h.foodService.DeleteListing(c.Context(), userID, foodID)
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedDeleteFood, err)
	}
	h.dispatcher.Dispatch(c.UserContext(), events)

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteFood)
}

func (h *foodHandler) UploadFoodImage(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	foodID := c.Params("foodId")

	image, err := c.FormFile("image")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusUnprocessableEntity, domain.MessageFailedBodyRequest, err)
	}

	url, err := h.foodService.UploadListingImage(c.Context(), userID, foodID, image)
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedUploadFoodImage, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{"image_url": url}, fiber.StatusOK, domain.MessageSuccessUploadImage)
}

func (h *foodHandler) GetFood(c *fiber.Ctx) error {
	res, err := h.foodService.GetListing(c.Context(), c.Params("foodId"))
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedGetFood, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetFood)
}

func (h *foodHandler) GetDonatedFoods(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.foodService.GetOwnListings(c.Context(), userID)
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedGetFoods, err)
	}

	message := domain.MessageSuccessGetFoods
	if len(res) == 0 {
		message = domain.MessageNoFoodDonations
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, message)
}

func (h *foodHandler) GetAvailableFoods(c *fiber.Ctx) error {
	role, _ := c.Locals("role").(string)

	res, err := h.foodService.GetAvailableListings(c.Context(), role)
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedGetAvailable, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetFoods)
}
