package handlers

import (
	"net/http"
	"time"

	"food-ordering-api/middleware"
	"food-ordering-api/services"

	"github.com/gin-gonic/gin"
)

// ── Cart ─────────────────────────────────────────────────────────────────────

type AddCartItemRequest struct {
	MenuItemID   uint   `json:"menu_item_id" binding:"required"`
	Quantity     int    `json:"quantity" binding:"required,min=1"`
	Instructions string `json:"instructions"`
}

// UpdateCartItemRequest addresses one line: the item in the path plus the
// instructions it was added with.
type UpdateCartItemRequest struct {
	Quantity     int    `json:"quantity"`
	Instructions string `json:"instructions"`
}

// GetCart returns the caller's cart at a shop with its totals
func (h *Handler) GetCart(c *gin.Context) {
	shopID, ok := h.idParam(c, "shopId")
	if !ok {
		return
	}
	view, err := h.svc.Cart.Get(c.Request.Context(), middleware.GetUserID(c), shopID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) AddCartItem(c *gin.Context) {
	shopID, ok := h.idParam(c, "shopId")
	if !ok {
		return
	}
	var req AddCartItemRequest
	if !h.bindJSON(c, &req) {
		return
	}
	view, err := h.svc.Cart.AddItem(c.Request.Context(), middleware.GetUserID(c), shopID, services.AddItemInput{
		MenuItemID:   req.MenuItemID,
		Quantity:     req.Quantity,
		Instructions: req.Instructions,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// UpdateCartItem sets one line's quantity; zero removes it
func (h *Handler) UpdateCartItem(c *gin.Context) {
	shopID, ok := h.idParam(c, "shopId")
	if !ok {
		return
	}
	itemID, ok := h.idParam(c, "itemId")
	if !ok {
		return
	}
	var req UpdateCartItemRequest
	if !h.bindJSON(c, &req) {
		return
	}
	view, err := h.svc.Cart.UpdateQuantity(c.Request.Context(), middleware.GetUserID(c), shopID, itemID, req.Instructions, req.Quantity)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// RemoveCartItem drops the line of :itemId whose instructions match the
// "instructions" query parameter (empty when absent)
func (h *Handler) RemoveCartItem(c *gin.Context) {
	shopID, ok := h.idParam(c, "shopId")
	if !ok {
		return
	}
	itemID, ok := h.idParam(c, "itemId")
	if !ok {
		return
	}
	view, err := h.svc.Cart.RemoveItem(c.Request.Context(), middleware.GetUserID(c), shopID, itemID, c.Query("instructions"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) ClearCart(c *gin.Context) {
	shopID, ok := h.idParam(c, "shopId")
	if !ok {
		return
	}
	if err := h.svc.Cart.Clear(c.Request.Context(), middleware.GetUserID(c), shopID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}

// ── Checkout ─────────────────────────────────────────────────────────────────

type AbortCheckoutRequest struct {
	OrderID string `json:"order_id" binding:"required"`
}

// StartCheckout opens a gateway order for the cart total
func (h *Handler) StartCheckout(c *gin.Context) {
	shopID, ok := h.idParam(c, "shopId")
	if !ok {
		return
	}
	intent, err := h.svc.Checkout.StartPayment(c.Request.Context(), middleware.GetUserID(c), shopID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, intent)
}

// ConfirmCheckout places the order once the payment signature checks out
func (h *Handler) ConfirmCheckout(c *gin.Context) {
	shopID, ok := h.idParam(c, "shopId")
	if !ok {
		return
	}
	var req services.Confirmation
	if !h.bindJSON(c, &req) {
		return
	}
	order, err := h.svc.Checkout.Complete(c.Request.Context(), middleware.GetUserID(c), shopID, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"order":   order,
	})
}

// AbortCheckout records that the payment widget was dismissed
func (h *Handler) AbortCheckout(c *gin.Context) {
	if _, ok := h.idParam(c, "shopId"); !ok {
		return
	}
	var req AbortCheckoutRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if err := h.svc.Checkout.Abort(c.Request.Context(), middleware.GetUserID(c), req.OrderID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment cancelled; your cart is unchanged"})
}

// ── Orders ───────────────────────────────────────────────────────────────────

// GetMyOrders returns all orders for the logged-in customer
func (h *Handler) GetMyOrders(c *gin.Context) {
	orders, err := h.svc.Orders.ListForCustomer(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// GetOrderDetail returns a single order's full detail with history
func (h *Handler) GetOrderDetail(c *gin.Context) {
	orderID, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	order, err := h.svc.Orders.GetForCustomer(c.Request.Context(), middleware.GetUserID(c), orderID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	elapsed := time.Since(order.CreatedAt).Minutes()
	c.JSON(http.StatusOK, gin.H{
		"order":           order,
		"minutes_elapsed": int(elapsed),
	})
}

// ── Location ─────────────────────────────────────────────────────────────────

type LocationRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
}

func (h *Handler) GetMyLocation(c *gin.Context) {
	loc, err := h.svc.Locations.Get(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"location": loc})
}

func (h *Handler) UpdateMyLocation(c *gin.Context) {
	var req LocationRequest
	if !h.bindJSON(c, &req) {
		return
	}
	loc, err := h.svc.Locations.Upsert(c.Request.Context(), middleware.GetUserID(c), services.LocationInput{
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Address:   req.Address,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Location saved", "location": loc})
}
