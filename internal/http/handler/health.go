package handler

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"docclean/internal/storage"
)

const probeTimeout = 2 * time.Second

// probeKey is never written; Stat on it only proves the backend answers.
const probeKey = ".healthcheck"

// Probe is a named readiness check.
type Probe struct {
	Name  string
	Check func(ctx context.Context) error
}

// DatabaseProbe pings db.
func DatabaseProbe(db *sql.DB) Probe {
	return Probe{Name: "database", Check: db.PingContext}
}

// StorageProbe stats a key that does not exist; a not-found answer counts as healthy.
func StorageProbe(s storage.Storage) Probe {
	return Probe{Name: "storage", Check: func(ctx context.Context) error {
		if _, err := s.Stat(ctx, probeKey); err != nil && !errors.Is(err, storage.ErrNotFound) {
			return err
		}
		return nil
	}}
}

// Welcome answers the root path.
func Welcome() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Welcome to the PDF Text Extractor API"})
	}
}

// HealthCheck reports healthy only when every probe passes.
func HealthCheck(probes ...Probe) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), probeTimeout)
		defer cancel()
		for _, p := range probes {
			if err := p.Check(ctx); err != nil {
				return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", p.Name+" unavailable")
			}
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe always answers 200.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}
