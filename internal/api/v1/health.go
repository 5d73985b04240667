package v1

import (
	"net/http"

	"github.com/flexprice/milkbill/internal/config"
	"github.com/flexprice/milkbill/internal/logger"
	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	config *config.Configuration
	logger *logger.Logger
}

func NewHealthHandler(
	config *config.Configuration,
	logger *logger.Logger,
) *HealthHandler {
	return &HealthHandler{
		config: config,
		logger: logger,
	}
}

type HealthResponse struct {
	Status  string `json:"status"`
	Mode    string `json:"mode"`
	Storage bool   `json:"storage"`
}

// @Summary Health check
// @Description Reports the deployment mode and whether documents are persisted to S3
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Mode:    string(h.config.Deployment.Mode),
		Storage: h.config.S3.Enabled,
	})
}
