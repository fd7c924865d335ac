package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tmoreau/cvfolio/internal/db"
)

// HealthHandler reports liveness and database connectivity.
type HealthHandler struct {
	database    *mongo.Database
	environment string
	started     time.Time
}

func NewHealthHandler(database *mongo.Database, environment string) *HealthHandler {
	return &HealthHandler{database: database, environment: environment, started: time.Now()}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "connected"
	status := "ok"
	code := fiber.StatusOK
	if err := db.Ping(c.Context(), h.database); err != nil {
		dbStatus = "disconnected"
		status = "degraded"
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(fiber.Map{
		"status":      status,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"uptime":      time.Since(h.started).Seconds(),
		"database":    dbStatus,
		"environment": h.environment,
	})
}
