package main

import (
	"catalog/app/category"
	"catalog/infra/postgres"
	"catalog/infra/rabbitmq"
	"catalog/internal/middleware"
	"catalog/pkg/config"
	"catalog/pkg/events"
	"catalog/pkg/httperror"
	"catalog/pkg/logger"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Request any
type Response any

type HandlerInterface[R Request, Res Response] interface {
	Handle(ctx context.Context, req *R) (*Res, error)
}

// payloadSetter is implemented by requests that take the raw JSON body as an
// untyped mapping instead of binding it to struct fields.
type payloadSetter interface {
	SetPayload(payload map[string]any)
}

func handle[R Request, Res Response](handler HandlerInterface[R, Res]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req R

		if setter, ok := any(&req).(payloadSetter); ok {
			var payload map[string]any
			if err := c.BodyParser(&payload); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
				return writeError(c, httperror.BadRequest(
					"request.invalid_body",
					"Invalid body",
					fiber.Map{"error": err.Error()},
				))
			}
			setter.SetPayload(payload)
		}

		if err := c.ParamsParser(&req); err != nil {
			return writeError(c, httperror.BadRequest(
				"request.invalid_path_params",
				"Invalid path params",
				fiber.Map{"error": err.Error()},
			))
		}

		ctx := c.UserContext()

		res, err := handler.Handle(ctx, &req)
		if err != nil {
			return writeError(c, err)
		}

		return c.JSON(res)
	}
}

func main() {
	appConfig := config.Read()
	log := logger.Init(appConfig.IsProduction())
	defer log.Sync()

	zap.L().Info("app starting...",
		zap.String("service", appConfig.ServiceName),
		zap.String("env", appConfig.AppEnv),
	)

	db := postgres.MustConnect(
		appConfig.PostgresHost,
		appConfig.PostgresDatabase,
		appConfig.PostgresUsername,
		appConfig.PostgresPassword,
		appConfig.PostgresPort,
		appConfig.PostgresSSLMode,
	)
	pgRepository := postgres.NewPgRepository(db)
	defer pgRepository.Close()

	if err := pgRepository.EnsureSchema(context.Background()); err != nil {
		zap.L().Fatal("Failed to prepare schema", zap.Error(err))
	}

	categoryService := category.NewService(
		pgRepository,
		category.NewCategoryValidator(),
		category.NewCategoryTransformer(),
		postgres.NewTransactor(db),
	)

	var eventPublisher events.Publisher
	if appConfig.RabbitMQURL != "" {
		publisher, err := rabbitmq.NewPublisher(appConfig.RabbitMQURL, appConfig.ServiceName)
		if err != nil {
			zap.L().Fatal("Failed to create event publisher", zap.Error(err))
		}
		defer publisher.Close()
		eventPublisher = publisher
	} else {
		zap.L().Warn("RABBITMQ_URL is empty, category events will not be published")
	}

	app := newApp(categoryService, eventPublisher)

	go func() {
		if err := app.Listen(fmt.Sprintf("0.0.0.0:%s", appConfig.Port)); err != nil {
			zap.L().Error("Failed to start server", zap.Error(err))
			os.Exit(1)
		}
	}()

	zap.L().Info("Server started on port", zap.String("port", appConfig.Port))

	gracefulShutdown(app)
}

func newApp(categoryService *category.Service, eventPublisher events.Publisher) *fiber.App {
	app := fiber.New(fiber.Config{
		IdleTimeout:  5 * time.Second,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		Concurrency:  256 * 1024,
	})

	registerRoutes(app, categoryService, eventPublisher)
	return app
}

func registerRoutes(app *fiber.App, categoryService *category.Service, eventPublisher events.Publisher) {
	getCategoriesHandler := category.NewGetCategoriesHandler(categoryService)
	getCategoryHandler := category.NewGetCategoryHandler(categoryService)
	createCategoryHandler := category.NewCreateCategoryHandler(categoryService, eventPublisher)
	updateCategoryHandler := category.NewUpdateCategoryHandler(categoryService, eventPublisher)
	deleteCategoryHandler := category.NewDeleteCategoryHandler(categoryService, eventPublisher)

	routes := app.Group("/api/v1")
	routes.Get("/categories", handle[category.GetCategoriesRequest, category.GetCategoriesResponse](getCategoriesHandler))
	routes.Get("/categories/:id", handle[category.GetCategoryRequest, category.GetCategoryResponse](getCategoryHandler))

	guard := middleware.NewSecurityHeadersMiddleware()
	routes.Post("/categories", guard, handle[category.CreateCategoryRequest, category.CreateCategoryResponse](createCategoryHandler))
	routes.Put("/categories/:id", guard, handle[category.UpdateCategoryRequest, category.UpdateCategoryResponse](updateCategoryHandler))
	routes.Delete("/categories/:id", guard, handle[category.DeleteCategoryRequest, category.DeleteCategoryResponse](deleteCategoryHandler))
}

func gracefulShutdown(app *fiber.App) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	zap.L().Info("Shutting down server...")

	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		zap.L().Error("Error during server shutdown", zap.Error(err))
	}

	zap.L().Info("Server gracefully stopped")
}

func writeError(c *fiber.Ctx, err error) error {
	var httpErr *httperror.Error
	if errors.As(err, &httpErr) {
		if httpErr.Status < fiber.StatusBadRequest {
			return c.SendStatus(httpErr.Status)
		}

		payload := fiber.Map{
			"code":    httpErr.Code,
			"message": httpErr.Message,
		}

		if httpErr.Details != nil {
			payload["details"] = httpErr.Details
		}

		if httpErr.Status >= fiber.StatusInternalServerError {
			zap.L().Error("Handler returned server error", zap.String("code", httpErr.Code), zap.Error(httpErr))
		} else {
			zap.L().Warn("Handler returned client error", zap.String("code", httpErr.Code), zap.Error(httpErr))
		}

		return c.Status(httpErr.Status).JSON(payload)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		zap.L().Warn("Fiber validation error", zap.String("message", fiberErr.Message), zap.Error(err))
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"code":    "request.invalid",
			"message": fiberErr.Message,
		})
	}

	zap.L().Error("Unhandled error", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"code":    "internal_server_error",
		"message": "Internal server error.",
	})
}
