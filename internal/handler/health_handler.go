package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/portfolio-contact-api/internal/config"
	"github.com/noah-isme/portfolio-contact-api/internal/utils"
)

const readinessTimeout = 2 * time.Second

// HealthResponse represents the payload returned by the health endpoint.
type HealthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Service     string    `json:"service"`
	Environment string    `json:"environment"`
}

// DependencyCheck probes one backing service for readiness.
type DependencyCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// ReadinessResponse reports the state of each dependency.
type ReadinessResponse struct {
	Status       string            `json:"status"`
	Dependencies map[string]string `json:"dependencies"`
}

// HealthCheck returns a handler that reports application health information.
func HealthCheck(cfg config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload := HealthResponse{
			Status:      "ok",
			Timestamp:   time.Now().UTC(),
			Service:     cfg.AppName,
			Environment: cfg.AppEnv,
		}

		return utils.SendSuccess(c, "service healthy", payload)
	}
}

// ReadinessCheck runs every dependency check and answers 503 when any fails.
// The email provider is not probed.
func ReadinessCheck(checks ...DependencyCheck) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), readinessTimeout)
		defer cancel()

		payload := ReadinessResponse{Status: "ready", Dependencies: make(map[string]string, len(checks))}
		for _, check := range checks {
			if err := check.Check(ctx); err != nil {
				payload.Status = "degraded"
				payload.Dependencies[check.Name] = err.Error()
				continue
			}
			payload.Dependencies[check.Name] = "ok"
		}

		if payload.Status != "ready" {
			return c.Status(fiber.StatusServiceUnavailable).JSON(utils.APIResponse{
				Success: false,
				Data:    payload,
				Message: "dependencies unavailable",
			})
		}

		return utils.SendSuccess(c, "service ready", payload)
	}
}
