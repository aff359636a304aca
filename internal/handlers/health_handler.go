package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger checks that the data store answers
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports service and database health
type HealthHandler struct {
	store   Pinger
	service string
}

func NewHealthHandler(store Pinger, service string) *HealthHandler {
	return &HealthHandler{store: store, service: service}
}

// HealthCheck godoc
// @Summary      Health check endpoint
// @Description  Returns 503 when the database does not answer.
// @Tags         health
// @Produce      json
// @Success      200  {object}  HealthResponse
// @Failure      503  {object}  HealthResponse
// @Router       /health [get]
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{Status: "ok", Service: h.service, Database: "up"}
	status := http.StatusOK
	if err := h.store.Ping(ctx); err != nil {
		resp.Status = "degraded"
		resp.Database = "down"
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}
