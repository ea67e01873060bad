package handlers

import (
	"net/http"

	"food-ordering-api/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type CreatePaymentOrderRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// CreatePaymentOrder opens a gateway order server-side so the secret key
// never reaches the browser. The response is the gateway's order object.
func (h *Handler) CreatePaymentOrder(c *gin.Context) {
	var req CreatePaymentOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	order, err := h.svc.Payments.CreateGatewayOrder(c.Request.Context(), req.Amount, req.Currency)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// VerifyPayment checks the signature returned by the payment widget
func (h *Handler) VerifyPayment(c *gin.Context) {
	var req services.Confirmation
	if !h.bindJSON(c, &req) {
		return
	}
	if err := h.svc.Payments.Verify(req); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"verified": true})
}
