package handlers

import (
	"net/http"

	"food-ordering-api/models"
	"food-ordering-api/statemachine"

	"github.com/gin-gonic/gin"
)

// ListShops returns every shop, optionally filtered (public)
func (h *Handler) ListShops(c *gin.Context) {
	shops, err := h.svc.Shops.List(c.Request.Context(), c.Query("search"), c.Query("open") == "true")
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count": len(shops),
		"shops": shops,
	})
}

// GetShop returns a single shop by slug
func (h *Handler) GetShop(c *gin.Context) {
	shop, err := h.svc.Shops.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shop": shop})
}

// GetShopMenu returns the available menu of a shop grouped by category (public)
func (h *Handler) GetShopMenu(c *gin.Context) {
	menu, err := h.svc.Menu.PublicMenu(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"shop":     menu.Shop,
		"sections": menu.Sections,
	})
}

// GetOrderPipeline returns the full order state machine for informational purposes
func (h *Handler) GetOrderPipeline(c *gin.Context) {
	p := h.svc.Orders.Pipeline()
	terminal := []models.OrderStatus{}
	for _, s := range p.Statuses {
		if statemachine.IsTerminal(s) {
			terminal = append(terminal, s)
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"statuses":        p.Statuses,
		"transitions":     p.Transitions,
		"terminal_states": terminal,
		"description":     "Shop order lifecycle; every step is taken by the shop owner",
	})
}
