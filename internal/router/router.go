package router

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"

	"github.com/brightride/brightride-api/internal/config"
	"github.com/brightride/brightride-api/internal/db"
	"github.com/brightride/brightride-api/internal/events"
	"github.com/brightride/brightride-api/internal/handlers"
	"github.com/brightride/brightride-api/internal/middleware"
	"github.com/brightride/brightride-api/internal/models"
	"github.com/brightride/brightride-api/internal/services/account"
	"github.com/brightride/brightride-api/internal/services/dispatch"
	"github.com/brightride/brightride-api/internal/services/matching"
	"github.com/brightride/brightride-api/internal/session"
)

// Deps are the process-scoped collaborators the HTTP layer is built from.
type Deps struct {
	DB        *gorm.DB
	Revoker   session.Revoker
	Publisher events.Publisher
	AccessLog bool
}

func New(cfg config.Config, deps Deps) *fiber.App {
	if deps.Revoker == nil {
		deps.Revoker = session.NopRevoker{}
	}
	if deps.Publisher == nil {
		deps.Publisher = events.NopPublisher{}
	}

	app := fiber.New(fiber.Config{
		AppName:      "brightride-api",
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(requestid.New())
	app.Use(recover.New())
	if deps.AccessLog {
		app.Use(logger.New(logger.Config{
			Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
		}))
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders:    "Content-Length",
		AllowCredentials: cfg.CORSOrigins != "*",
	}))

	accounts := account.NewService(deps.DB, cfg.JWTSecret, cfg.JWTExpiresMin)
	policy := dispatch.NewPolicy(cfg.StrictTransitions)
	rides := dispatch.NewRideService(deps.DB, policy, deps.Publisher)
	requests := dispatch.NewRequestService(deps.DB, policy, deps.Publisher)
	match := matching.NewService(deps.DB)

	authH := handlers.NewAuthHandler(accounts, deps.Revoker, cfg.JWTExpiresMin)
	rideH := handlers.NewRideHandler(rides)
	mechH := handlers.NewMechanicHandler(requests, match)
	driverH := handlers.NewDriverHandler(match)
	dashH := handlers.NewDashboardHandler(rides, requests)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Bright Ride API is running")
	})

	api := app.Group("/api")
	api.Get("/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx, deps.DB); err != nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "database unavailable")
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// public
	api.Post("/auth/register", authH.Register)
	api.Post("/auth/login", authH.Login)
	if cfg.GoogleEnabled() {
		googleH := handlers.NewGoogleOAuthHandler(accounts, cfg.JWTExpiresMin,
			cfg.GoogleClientID, cfg.GoogleSecret, cfg.GoogleRedirect, cfg.FrontendBaseURL)
		api.Get("/auth/google/start", googleH.Start)
		api.Get("/auth/google/callback", googleH.Callback)
	}

	// protected
	protected := api.Group("", middleware.Authenticate(cfg.JWTSecret, deps.Revoker))

	protected.Get("/auth/me", authH.Me)
	protected.Post("/auth/logout", authH.Logout)
	protected.Get("/dashboard", dashH.Get)

	protected.Get("/drivers/available", driverH.Available)
	protected.Patch("/drivers/availability", middleware.RequireRoles(models.RoleDriver), driverH.UpdateAvailability)

	protected.Post("/rides", rideH.Create)
	protected.Get("/rides", rideH.List)
	protected.Get("/rides/available", rideH.Available)
	protected.Patch("/rides/:id/status", rideH.UpdateStatus)

	protected.Post("/mechanics", mechH.Create)
	protected.Get("/mechanics", mechH.List)
	protected.Get("/mechanics/available", mechH.Available)
	protected.Get("/mechanics/nearby", mechH.Nearby)
	protected.Patch("/mechanics/availability", middleware.RequireRoles(models.RoleMechanic), mechH.UpdateAvailability)
	protected.Patch("/mechanics/:id/status", mechH.UpdateStatus)

	return app
}
