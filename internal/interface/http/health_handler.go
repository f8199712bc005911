package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rizqidamar/timely/config"
	"github.com/rizqidamar/timely/pkg/response"
)

type HealthHandler struct {
	Cfg *config.Config
}

func NewHealthHandler(cfg *config.Config) *HealthHandler {
	return &HealthHandler{Cfg: cfg}
}

// Health GET /api/v1/health
func (h *HealthHandler) Health(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{
		"status": "ok",
		"app":    h.Cfg.AppName,
		"env":    h.Cfg.Env,
	}, "healthy", nil)
}
