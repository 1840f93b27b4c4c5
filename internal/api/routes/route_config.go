package routes

import (
	"SaveByte/domain"
	"SaveByte/internal/api/handlers"
	"SaveByte/internal/middleware"
	"SaveByte/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App                 *fiber.App
	UserHandler         handlers.UserHandler
	FoodHandler         handlers.FoodHandler
	TransactionHandler  handlers.TransactionHandler
	NotificationHandler handlers.NotificationHandler
	DonationHandler     handlers.DonationHandler
	Middleware          middleware.Middleware
	JWTService          jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.GuestRoute()
	c.User()
	c.Foods()
	c.Transactions()
	c.Notifications()
	c.Reports()
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}

func (c *Config) auth() fiber.Handler {
	return c.Middleware.AuthMiddleware(c.JWTService)
}

func (c *Config) User() {
	api := c.App.Group("/api")
	{
		api.Post("/register", c.UserHandler.Register)
		api.Post("/login", c.UserHandler.Login)
		api.Get("/me", c.auth(), c.UserHandler.Me)
	}
}

func (c *Config) Foods() {
	api := c.App.Group("/api")
	hostel := c.Middleware.RoleAllowed(domain.RoleHostel)

	api.Post("/donate-food", c.auth(), hostel, c.FoodHandler.DonateFood)
	api.Put("/update-food/:foodId", c.auth(), hostel, c.FoodHandler.UpdateFood)
	api.Delete("/delete-food/:foodId", c.auth(), hostel, c.FoodHandler.DeleteFood)
	api.Post("/food-image/:foodId", c.auth(), hostel, c.FoodHandler.UploadFoodImage)
	api.Get("/get-all-donated-foods", c.auth(), hostel, c.FoodHandler.GetDonatedFoods)
	api.Get("/get-food/:foodId", c.auth(), c.FoodHandler.GetFood)

	api.Get("/get-all-ngo-available-foods", c.auth(), c.Middleware.RoleAllowed(domain.RoleNGO), c.FoodHandler.GetAvailableFoods)
	api.Get("/get-all-awc-available-foods", c.auth(), c.Middleware.RoleAllowed(domain.RoleAWC), c.FoodHandler.GetAvailableFoods)
}

func (c *Config) Transactions() {
	api := c.App.Group("/api")

	api.Post("/accept-food/:foodId", c.auth(), c.Middleware.RoleAllowed(domain.RoleNGO, domain.RoleAWC), c.TransactionHandler.AcceptFood)
	api.Post("/cancel-food/:foodId", c.auth(), c.TransactionHandler.CancelFood)
	api.Post("/verify-otp/:transactionId", c.auth(), c.TransactionHandler.VerifyOtp)
	api.Get("/get-transaction/:transactionId", c.auth(), c.TransactionHandler.GetTransaction)

	api.Get("/get-all-ngo-transactions/:id", c.auth(), c.Middleware.RoleAllowed(domain.RoleNGO), c.TransactionHandler.GetReceiverTransactions)
	api.Get("/get-all-awc-transactions/:id", c.auth(), c.Middleware.RoleAllowed(domain.RoleAWC), c.TransactionHandler.GetReceiverTransactions)
	api.Get("/get-all-hostel-transactions/:id", c.auth(), c.Middleware.RoleAllowed(domain.RoleHostel), c.TransactionHandler.GetDonorTransactions)
}

func (c *Config) Notifications() {
	api := c.App.Group("/api")

	api.Get("/get-all-notifications/:userId", c.auth(), c.NotificationHandler.GetNotifications)
	api.Put("/mark-read-notifications/:userId", c.auth(), c.NotificationHandler.MarkRead)
}

func (c *Config) Reports() {
	api := c.App.Group("/api")
	hostel := c.Middleware.RoleAllowed(domain.RoleHostel)

	api.Get("/get-wastage-report", c.auth(), hostel, c.DonationHandler.GetWastageReport)
	api.Get("/get-wastage-report/:startDate/:endDate", c.auth(), hostel, c.DonationHandler.GetWastageReport)
}
