package handlers

import (
	"net/http"

	"food-ordering-api/middleware"
	"food-ordering-api/models"
	"food-ordering-api/services"

	"github.com/gin-gonic/gin"
)

// GetShopOrders returns all orders for the shop owner
func (h *Handler) GetShopOrders(c *gin.Context) {
	orders, err := h.svc.Orders.ListForOwner(c.Request.Context(), middleware.GetUserID(c), models.OrderStatus(c.Query("status")))
	if err != nil {
		h.respondError(c, err)
		return
	}

	summary := map[models.OrderStatus]int{}
	for _, o := range orders {
		summary[o.Status]++
	}
	c.JSON(http.StatusOK, gin.H{
		"order_summary": summary,
		"count":         len(orders),
		"orders":        orders,
	})
}

// GetShopOrder returns one order of the owner's shop with its history
func (h *Handler) GetShopOrder(c *gin.Context) {
	orderID, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	order, err := h.svc.Orders.GetForOwner(c.Request.Context(), middleware.GetUserID(c), orderID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

type UpdateOrderStatusRequest struct {
	Status                 models.OrderStatus `json:"status" binding:"required"`
	Note                   string             `json:"note"`
	EstimatedPickupMinutes int                `json:"estimated_pickup_minutes"`
}

// UpdateOrderStatus handles the owner's state transitions
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	orderID, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	var req UpdateOrderStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.transition(c, orderID, func() (*models.Order, error) {
		return h.svc.Orders.Transition(c.Request.Context(), middleware.GetUserID(c), orderID, services.TransitionInput{
			To:                     req.Status,
			Note:                   req.Note,
			EstimatedPickupMinutes: req.EstimatedPickupMinutes,
		})
	})
}

// AdvanceOrder moves the order to its next pipeline status
func (h *Handler) AdvanceOrder(c *gin.Context) {
	orderID, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	h.transition(c, orderID, func() (*models.Order, error) {
		return h.svc.Orders.Advance(c.Request.Context(), middleware.GetUserID(c), orderID)
	})
}

func (h *Handler) transition(c *gin.Context, orderID uint, apply func() (*models.Order, error)) {
	before, err := h.svc.Orders.GetForOwner(c.Request.Context(), middleware.GetUserID(c), orderID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	order, err := apply()
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":         "Order status updated",
		"order_id":        order.ID,
		"previous_status": before.Status,
		"current_status":  order.Status,
		"order":           order,
	})
}

// GetOrderCustomerLocation shows where the customer of an order is
func (h *Handler) GetOrderCustomerLocation(c *gin.Context) {
	orderID, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	loc, err := h.svc.Locations.GetForOrder(c.Request.Context(), middleware.GetUserID(c), orderID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"location": loc})
}

// GetDashboard summarises the owner's shop from live order data
func (h *Handler) GetDashboard(c *gin.Context) {
	d, err := h.svc.Orders.Dashboard(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dashboard": d})
}

// GetPayouts lists the shop's payments with paid/failed totals
func (h *Handler) GetPayouts(c *gin.Context) {
	p, err := h.svc.Payments.ListForOwner(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":      len(p.Payments),
		"paid":       p.Paid,
		"failed":     p.Failed,
		"open":       p.Open,
		"gross_paid": p.GrossPaid,
		"payments":   p.Payments,
	})
}
