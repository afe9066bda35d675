package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/weather-ticker/internal/api/http"
	"github.com/i474232898/weather-ticker/internal/config"
	"github.com/i474232898/weather-ticker/internal/logging"
	"github.com/i474232898/weather-ticker/internal/mqtt"
	"github.com/i474232898/weather-ticker/internal/scheduler"
	"github.com/i474232898/weather-ticker/internal/store"
	"github.com/i474232898/weather-ticker/internal/weather/providers"
)

var version = "dev"

const appName = "weather-ticker"

func main() {
	// Load configuration (also reads .env when present).
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logg := logging.New(cfg, version, appName)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Shared HTTP client; its timeout is the only bound on a fetch.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	provider := providers.NewOpenWeatherProvider(httpClient, cfg.FeedBaseURL)
	feedStore := store.NewMemoryStore()

	ctrl := scheduler.NewController(provider, feedStore, scheduler.Options{
		RefreshInterval:  cfg.RefreshInterval,
		RotationInterval: cfg.RotationInterval,
	}, logg)
	defer ctrl.Shutdown()

	ctrl.Subscribe(func(text string) {
		logg.Info("display updated", "text", text)
	})

	if cfg.MQTT.Enabled() {
		pub := mqtt.NewPublisher(cfg.MQTT, logg)
		defer pub.Disconnect()

		go func() {
			if err := pub.Connect(ctx); err != nil {
				logg.Error("mqtt connect failed", "error", err)
			}
		}()
		go pub.Run(ctx)
		ctrl.Subscribe(pub.HandleDisplay)
	}

	if err := ctrl.Configure(cfg.Settings.Config()); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}

	app := fiber.New(fiber.Config{
		AppName:               appName,
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": appName,
		})
	})

	httpapi.RegisterRoutes(app, ctrl)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			logg.Error("fiber server stopped", "error", err)
		}
	}()
	logg.Info("listening", "port", cfg.Port)

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logg.Error("error during shutdown", "error", err)
	}
}
