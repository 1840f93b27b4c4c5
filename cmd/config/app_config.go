package config

import (
	"SaveByte/domain"
	"SaveByte/internal/api/handlers"
	"SaveByte/internal/api/presenters"
	"SaveByte/internal/api/routes"
	"SaveByte/internal/middleware"
	"SaveByte/internal/realtime"
	"SaveByte/internal/utils"
	"SaveByte/internal/utils/mailing"
	"SaveByte/internal/utils/storage"
	"SaveByte/pkg/donation"
	"SaveByte/pkg/food"
	"SaveByte/pkg/jwt"
	"SaveByte/pkg/notification"
	"SaveByte/pkg/otp"
	"SaveByte/pkg/transaction"
	"SaveByte/pkg/user"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// App bundles the HTTP API, the websocket listener and the background
// notification workers so they can be started and stopped together.
type App struct {
	Fiber      *fiber.App
	Hub        *realtime.Hub
	Dispatcher notification.Dispatcher
	OTPLimiter *otp.Limiter

	ws      *http.Server
	logFile *os.File
	cleanup []func(context.Context) error
	logger  zerolog.Logger
}

var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set")

func NewApp(ctx context.Context, db *gorm.DB, log zerolog.Logger) (*App, error) {
	jwtSecret := utils.GetConfig("JWT_SECRET")
	if jwtSecret == "" {
		return nil, ErrMissingJWTSecret
	}

	utils.InitValidator()
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return presenters.ErrorResponse(c, fe.Code, fe.Message, nil)
			}
			return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageTryAgainLater, nil)
		},
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	if err := os.MkdirAll("./logs", os.ModePerm); err != nil {
		return nil, fmt.Errorf("error creating logs directory: %w", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		return nil, fmt.Errorf("error opening log file: %w", err)
	}
	out := &App{logFile: file, logger: log}

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   utils.GetConfig("TIMEZONE"),
		Output:     file,
	}))
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/metrics"
		},
	}))

	// utils
	s3, err := storage.NewAwsS3(ctx, storage.S3Config{
		Bucket:    utils.GetConfig("AWS_S3_BUCKET"),
		Region:    utils.GetConfig("AWS_S3_REGION"),
		AccessKey: utils.GetConfig("AWS_ACCESS_KEY"),
		SecretKey: utils.GetConfig("AWS_SECRET_KEY"),
	})
	if err != nil {
		file.Close()
		return nil, err
	}
	if !s3.Enabled() {
		log.Warn().Msg("AWS_S3_BUCKET not set, image uploads are disabled")
	}

	mailer := mailing.NewNoopMailer()
	if utils.GetConfig("SMTP_HOST") != "" {
		mailer, err = mailing.NewSMTPMailer(mailing.LoadMailConfig())
		if err != nil {
			file.Close()
			return nil, err
		}
	} else {
		log.Warn().Msg("SMTP_HOST not set, outgoing mail is discarded")
	}

	jwtService := jwt.NewJWTService(jwtSecret)
	out.Hub = realtime.NewHub(jwtService, utils.GetConfig("APP_URL"), log)

	// Repository
	notificationRepository, err := out.notificationRepository(ctx, db)
	if err != nil {
		file.Close()
		return nil, err
	}
	userRepository := user.NewUserRepository(db)
	foodRepository := food.NewFoodRepository(db)
	transactionRepository := transaction.NewTransactionRepository(db)
	donationRepository := donation.NewDonationRepository(db)

	// Service
	maxAttempts := utils.GetConfigInt("OTP_MAX_ATTEMPTS", 5)
	out.OTPLimiter = otp.NewLimiter(time.Minute, maxAttempts)

	notificationService := notification.NewNotificationService(notificationRepository, out.Hub, log)
	out.Dispatcher = notification.NewDispatcher(notificationService, mailer, utils.GetConfigInt("MAIL_WORKERS", 4), log)
	userService := user.NewUserService(userRepository, jwtService)
	foodService := food.NewFoodService(foodRepository, s3, log)
	transactionService := transaction.NewTransactionService(transactionRepository, transaction.Options{
		MaxOTPAttempts: maxAttempts,
		Limiter:        out.OTPLimiter,
	}, log)
	donationService := donation.NewDonationService(donationRepository, utils.Location())

	// Handler
	userHandler := handlers.NewUserHandler(userService, out.Dispatcher, validator)
	foodHandler := handlers.NewFoodHandler(foodService, out.Dispatcher, validator)
	transactionHandler := handlers.NewTransactionHandler(transactionService, out.Dispatcher, validator)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	donationHandler := handlers.NewDonationHandler(donationService)

	// routes
	routesConfig := routes.Config{
		App:                 app,
		UserHandler:         userHandler,
		FoodHandler:         foodHandler,
		TransactionHandler:  transactionHandler,
		NotificationHandler: notificationHandler,
		DonationHandler:     donationHandler,
		Middleware:          middlewares,
		JWTService:          jwtService,
	}
	routesConfig.Setup()

	out.Fiber = app
	out.ws = &http.Server{
		Addr:              ":" + utils.GetConfig("WS_PORT"),
		Handler:           out.Hub.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return out, nil
}

func (a *App) notificationRepository(ctx context.Context, db *gorm.DB) (notification.NotificationRepository, error) {
	store := utils.GetConfig("NOTIFICATION_STORE")
	switch store {
	case "postgres", "":
		return notification.NewNotificationRepository(db), nil
	case "mongo":
		client, err := ConnectMongo(ctx)
		if err != nil {
			return nil, err
		}
		a.cleanup = append(a.cleanup, client.Disconnect)
		a.logger.Info().Str("database", utils.GetConfig("MONGO_DATABASE")).Msg("notifications stored in mongo")
		return notification.NewMongoNotificationRepository(ctx, client.Database(utils.GetConfig("MONGO_DATABASE")))
	default:
		return nil, fmt.Errorf("unknown NOTIFICATION_STORE %q", store)
	}
}

// Run serves the API and the websocket endpoint until ctx is cancelled or
// either listener fails, then shuts both down.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		addr := ":" + utils.GetConfig("APP_PORT")
		a.logger.Info().Str("addr", addr).Msg("api listening")
		return a.Fiber.Listen(addr)
	})
	g.Go(func() error {
		a.logger.Info().Str("addr", a.ws.Addr).Msg("websocket listening")
		if err := a.ws.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if n := a.OTPLimiter.Sweep(30 * time.Minute); n > 0 {
					a.logger.Debug().Int("keys", n).Msg("swept idle otp limiter keys")
				}
			}
		}
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return a.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	if err := a.Fiber.ShutdownWithContext(ctx); err != nil {
		errs = append(errs, fmt.Errorf("api shutdown: %w", err))
	}
	if err := a.ws.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("websocket shutdown: %w", err))
	}
	a.Hub.Close()
	if err := a.Dispatcher.Wait(ctx); err != nil {
		errs = append(errs, fmt.Errorf("pending emails: %w", err))
	}
	for _, fn := range a.cleanup {
		if err := fn(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := a.logFile.Close(); err != nil {
		errs = append(errs, err)
	}
	a.logger.Info().Msg("shutdown complete")
	return errors.Join(errs...)
}
