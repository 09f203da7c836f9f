package server

import (
	"sigma-lms-be/internal/bootstrap"
	"sigma-lms-be/internal/config"
	"sigma-lms-be/internal/pkg/serverutils"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	bodyLimit := cfg.App.BodyLimitMB
	if bodyLimit <= 0 {
		bodyLimit = 110
	}
	app := fiber.New(fiber.Config{
		BodyLimit: bodyLimit * 1024 * 1024,
	})

	// The error handler sits outermost so that panics turned into errors by
	// recover are answered in the same JSON shape.
	app.Use(serverutils.ErrorHandlerMiddleware(container.Logger))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.App.CorsAllowedOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, X-Client-Info, Apikey",
		AllowMethods:  "GET, POST, OPTIONS",
		ExposeHeaders: "Content-Length, Content-Type",
	}))
	app.Use(otelfiber.Middleware())

	registerRoutes(app, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	s.container.Logger.Info("SERVER", "Server is running", map[string]interface{}{
		"port": s.cfg.App.Port,
	})
	return s.app.Listen(":" + s.cfg.App.Port)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func registerRoutes(app *fiber.App, c *bootstrap.Container) {
	app.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.JSON(serverutils.SuccessResponse("ok", fiber.Map{"status": "up"}))
	})

	api := app.Group("/api")
	c.ImportController.RegisterRoutes(api, c.JwtMiddleware)
	c.LessonController.RegisterRoutes(api, c.JwtMiddleware)
}
