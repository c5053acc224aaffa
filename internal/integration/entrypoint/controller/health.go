// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const healthProbeTimeout = 2 * time.Second

// HealthProbe checks one dependency of the feedlot engine. A failing
// required probe makes the service unavailable; an optional one only
// degrades it.
type HealthProbe struct {
	Name     string
	Required bool
	Check    func(ctx context.Context) error
}

// HealthController handles health check endpoints.
type HealthController struct {
	probes []HealthProbe
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
	Timestamp  string            `json:"timestamp"`
}

// NewHealthController creates a new health controller instance.
func NewHealthController(probes ...HealthProbe) *HealthController {
	return &HealthController{
		probes: probes,
	}
}

// Check handles GET /health requests.
func (h *HealthController) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthProbeTimeout)
	defer cancel()

	response := HealthResponse{
		Status:     "ok",
		Components: make(map[string]string, len(h.probes)),
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}
	status := http.StatusOK

	for _, probe := range h.probes {
		if err := probe.Check(ctx); err != nil {
			response.Components[probe.Name] = "down"
			if probe.Required {
				response.Status = "unavailable"
				status = http.StatusServiceUnavailable
			} else if response.Status == "ok" {
				response.Status = "degraded"
			}
			continue
		}
		response.Components[probe.Name] = "up"
	}

	c.JSON(status, response)
}
