package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	"github.com/vendor-discovery/internal/config"
	"github.com/vendor-discovery/internal/delivery/http/handler"
	"github.com/vendor-discovery/internal/delivery/http/middleware"
	"github.com/vendor-discovery/internal/pkg/errors"
	"github.com/vendor-discovery/internal/pkg/utils"
)

// HealthCheck проверяет одну внешнюю зависимость (redis, postgres)
type HealthCheck func(ctx context.Context) error

// Server - HTTP сервер на основе Fiber
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	// Handlers
	screenHandler  *handler.ScreenHandler
	sessionHandler *handler.SessionHandler

	checks map[string]HealthCheck
}

// NewServer - создание нового HTTP сервера
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	screenHandler *handler.ScreenHandler,
	sessionHandler *handler.SessionHandler,
	checks map[string]HealthCheck,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Vendor Discovery",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:            app,
		config:         cfg,
		logger:         logger,
		screenHandler:  screenHandler,
		sessionHandler: sessionHandler,
		checks:         checks,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// App отдаёт fiber.App (нужно для app.Test в тестах)
func (s *Server) App() *fiber.App {
	return s.app
}

// setupMiddlewares - настройка middleware
func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS(s.config.Server.AllowedOrigins))
	s.app.Use(middleware.ClientIP())
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// setupRoutes - настройка маршрутов
func (s *Server) setupRoutes() {
	// Swagger documentation route
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	api := s.app.Group("/api/v1")

	// Health check
	api.Get("/health", s.health)

	api.Get("/categories", handler.GetCategories)

	// Screens
	screens := api.Group("/screens")
	screens.Post("/", s.screenHandler.CreateScreen)
	screens.Get("/:id", s.screenHandler.GetScreen)
	screens.Put("/:id/criteria", s.screenHandler.UpdateCriteria)
	screens.Post("/:id/search", s.screenHandler.Search)
	screens.Post("/:id/locate", s.screenHandler.Locate)

	// Drill-down
	screens.Post("/:id/vendors/:index/select", s.screenHandler.SelectVendor)
	screens.Post("/:id/products/:index/select", s.screenHandler.SelectProduct)
	screens.Post("/:id/back", s.screenHandler.Back)

	// Reviews
	screens.Post("/:id/review-form/toggle", s.screenHandler.ToggleReviewForm)
	screens.Put("/:id/review-form", s.screenHandler.EditReviewForm)
	screens.Post("/:id/reviews", s.screenHandler.SubmitReview)

	// Map
	screens.Post("/:id/map/markers/:markerId/click", s.screenHandler.ClickMarker)
	screens.Get("/:id/map.png", s.screenHandler.MapImage)
	screens.Get("/:id/vendors/:index/directions", s.screenHandler.Directions)

	// Session
	api.Put("/session", s.sessionHandler.Login)
	api.Delete("/session", s.sessionHandler.Logout)
	api.Post("/sessions/revoke", s.sessionHandler.Revoke)
}

// health godoc
// @Summary Health check
// @Description Состояние сервиса и подключённых хранилищ
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /api/v1/health [get]
func (s *Server) health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	status := fiber.StatusOK
	deps := make(fiber.Map, len(s.checks))
	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			s.logger.Warn("Health check failed", zap.String("dependency", name), zap.Error(err))
			deps[name] = err.Error()
			status = fiber.StatusServiceUnavailable
			continue
		}
		deps[name] = "ok"
	}

	state := "healthy"
	if status != fiber.StatusOK {
		state = "degraded"
	}
	return c.Status(status).JSON(fiber.Map{
		"status":       state,
		"time":         time.Now(),
		"dependencies": deps,
	})
}

// Start - запуск HTTP сервера
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown HTTP сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler - кастомный обработчик ошибок
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.Int("status", code),
			zap.Error(err),
		)

		if code == fiber.StatusNotFound {
			return c.Status(code).JSON(utils.ErrorResponse{
				Error: errors.New("NOT_FOUND", err.Error(), errors.KindValidation, code),
			})
		}
		return c.Status(code).JSON(utils.ErrorResponse{
			Error: errors.ErrInternalServer.WithMessage(err.Error()),
		})
	}
}
