package main

import (
	"time"

	config "github.com/fitplan/fitplan_backend/configs"
	"github.com/fitplan/fitplan_backend/database"
	"github.com/fitplan/fitplan_backend/handlers"
	"github.com/fitplan/fitplan_backend/jobs"
	"github.com/fitplan/fitplan_backend/logger"
	"github.com/fitplan/fitplan_backend/middleware"
	"github.com/fitplan/fitplan_backend/notifications"
	"github.com/fitplan/fitplan_backend/routes"
	"github.com/fitplan/fitplan_backend/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger.Init(cfg.IsProduction())
	defer logger.Sync()

	db, err := database.ConnectDB(cfg)
	if err != nil {
		logger.Log.Fatal("database connection failed", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Log.Fatal("migration failed", zap.Error(err))
	}
	if err := database.SeedAdmin(db, cfg); err != nil {
		logger.Log.Fatal("admin seed failed", zap.Error(err))
	}
	notifications.InitEmailService(cfg)

	var blobs storage.Storage
	if cloudinaryStorage, err := storage.NewCloudinaryStorage(cfg.CloudinaryURL, cfg.MediaFolder); err != nil {
		logger.Log.Warn("media storage disabled", zap.Error(err))
	} else {
		blobs = cloudinaryStorage
	}
	handlers.Setup(cfg, blobs)

	c := cron.New()
	if _, err := c.AddFunc(cfg.RegistrationExpirySchedule, jobs.ExpireRegistrations); err != nil {
		logger.Log.Fatal("invalid registration expiry schedule", zap.String("schedule", cfg.RegistrationExpirySchedule), zap.Error(err))
	}
	if _, err := c.AddFunc(cfg.RequestReminderSchedule, jobs.RemindCoachesOfOutstandingRequests); err != nil {
		logger.Log.Fatal("invalid request reminder schedule", zap.String("schedule", cfg.RequestReminderSchedule), zap.Error(err))
	}
	c.Start()
	defer c.Stop()
	logger.Log.Info("cron jobs scheduled")

	app := fiber.New(fiber.Config{
		AppName:       "FitPlan",
		CaseSensitive: true,
		StrictRouting: true,
		ReadTimeout:   15 * time.Second,
		WriteTimeout:  15 * time.Second,
		IdleTimeout:   60 * time.Second,
		BodyLimit:     20 * 1024 * 1024,
		ErrorHandler:  handlers.ErrorHandler,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Authorization",
		MaxAge:        86400,
	}))
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Welcome to FitPlan API",
		})
	})

	protected := middleware.Protected(cfg.JWTSecret)
	routes.PublicRoutes(app)
	routes.AuthRoutes(app)
	routes.UserRoutes(app, protected)
	routes.CoachRoutes(app, protected)
	routes.MediaRoutes(app, protected)
	routes.AdminRoutes(app, protected)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})

	logger.Log.Info("server starting", zap.String("port", cfg.Port), zap.String("environment", cfg.Environment))
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Log.Fatal("server failed to start", zap.Error(err))
	}
}
