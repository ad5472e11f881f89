package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pix-charge.backend/internal/domain/entities"
	"pix-charge.backend/internal/usecases"
	"pix-charge.backend/pkg/logger"
)

// WebhookHandler handles processor notifications
type WebhookHandler struct {
	usecase *usecases.ChargeUsecase
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(usecase *usecases.ChargeUsecase) *WebhookHandler {
	return &WebhookHandler{usecase: usecase}
}

// HandleProcessorWebhook acks processor notifications. The provider retries
// on non-2xx, so malformed or unknown notifications are logged and acked
// rather than rejected.
// POST /api/v1/payments/webhook
func (h *WebhookHandler) HandleProcessorWebhook(c *gin.Context) {
	var n entities.WebhookNotification
	if err := c.ShouldBindJSON(&n); err != nil {
		logger.Warn(c.Request.Context(), "unparseable webhook body")
	} else {
		h.usecase.HandleWebhook(c.Request.Context(), n)
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
