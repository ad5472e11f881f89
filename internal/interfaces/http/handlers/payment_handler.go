package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	domainerrors "pix-charge.backend/internal/domain/errors"
	"pix-charge.backend/internal/interfaces/http/response"
	"pix-charge.backend/internal/usecases"
)

// PaymentHandler exposes the charge lifecycle over HTTP
type PaymentHandler struct {
	usecase *usecases.ChargeUsecase
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(usecase *usecases.ChargeUsecase) *PaymentHandler {
	return &PaymentHandler{usecase: usecase}
}

type CreatePaymentRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// CreatePayment creates a new PIX charge
// POST /api/v1/payments
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest("INVALID_AMOUNT", "amount must be a number"))
		return
	}

	charge, err := h.usecase.CreateCharge(c.Request.Context(), req.Amount, req.Description)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, charge)
}

// GetPayment returns the current status of a charge, reconciling pending
// ones against the external processor
// GET /api/v1/payments/:id
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	charge, err := h.usecase.GetCharge(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, charge)
}

// ApprovePayment manually confirms a pending charge
// POST /api/v1/payments/:id/approve
func (h *PaymentHandler) ApprovePayment(c *gin.Context) {
	charge, err := h.usecase.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, charge)
}

// RejectPayment manually rejects a pending charge
// POST /api/v1/payments/:id/reject
func (h *PaymentHandler) RejectPayment(c *gin.Context) {
	charge, err := h.usecase.Reject(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, charge)
}

// Debug reports ledger counts and uptime
// GET /api/v1/payments/debug
func (h *PaymentHandler) Debug(c *gin.Context) {
	stats, uptime := h.usecase.Stats(c.Request.Context())

	response.Success(c, http.StatusOK, gin.H{
		"payments":       stats,
		"uptime_seconds": int64(uptime.Seconds()),
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
	})
}
