package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-ticker/internal/scheduler"
	"github.com/i474232898/weather-ticker/internal/store"
	"github.com/i474232898/weather-ticker/internal/weather"
)

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, ctrl *scheduler.Controller) {
	v1 := app.Group("/api/v1")

	v1.Get("/display", func(c *fiber.Ctx) error {
		return c.JSON(ctrl.Status())
	})

	v1.Get("/snapshot", func(c *fiber.Ctx) error {
		snapshot, err := ctrl.Latest()
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no feed snapshot available yet")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read feed snapshot")
		}

		return c.JSON(snapshot)
	})

	v1.Get("/settings", func(c *fiber.Ctx) error {
		settings, ok := ctrl.Settings()
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "scheduler is not configured")
		}
		return c.JSON(redact(settings))
	})

	v1.Put("/settings", func(c *fiber.Ctx) error {
		var req weather.Settings
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid settings body")
		}

		if err := req.Validate(); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := ctrl.Configure(req.Config()); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}

		return c.JSON(ctrl.Status())
	})
}

// settingsView is the settings block as returned to clients, without the key itself.
type settingsView struct {
	weather.Settings
	APIKey    string `json:"apiKey,omitempty"`
	HasAPIKey bool   `json:"hasApiKey"`
}

func redact(s weather.Settings) settingsView {
	return settingsView{
		Settings:  s,
		HasAPIKey: s.APIKey != "",
	}
}
