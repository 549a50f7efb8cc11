package api

import (
	"context"
	"net/http"
	"time"

	echo "github.com/labstack/echo/v5"

	"github.com/intentflow/resolver/pkg/database"
	"github.com/intentflow/resolver/pkg/version"
)

// healthHandler handles GET /health.
func (s *Server) healthHandler(c *echo.Context) error {
	reqCtx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	resp := HealthResponse{
		Status:  "healthy",
		Version: version.Full(),
		Corpus:  ComponentHealth{Status: "healthy"},
	}

	status := http.StatusOK

	dbHealth, err := database.Health(reqCtx, s.dbClient.DB())
	if err != nil {
		resp.Status = "unhealthy"
		status = http.StatusServiceUnavailable
	}
	if dbHealth != nil {
		resp.Database = &DatabaseHealth{
			Status:          dbHealth.Status,
			OpenConnections: dbHealth.OpenConnections,
			InUse:           dbHealth.InUse,
			Idle:            dbHealth.Idle,
		}
	}

	if s.redisPing != nil {
		if err := s.redisPing(reqCtx); err != nil {
			resp.Redis = &ComponentHealth{Status: "unhealthy", Message: err.Error()}
			if resp.Status == "healthy" {
				resp.Status = "degraded"
			}
		} else {
			resp.Redis = &ComponentHealth{Status: "healthy"}
		}
	}

	return c.JSON(status, resp)
}
