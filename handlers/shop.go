package handlers

import (
	"net/http"
	"strconv"

	"food-ordering-api/apperr"
	"food-ordering-api/middleware"
	"food-ordering-api/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ── Shop Management ──────────────────────────────────────────────────────────

type ShopRequest struct {
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	Address      string `json:"address"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	OpeningHours string `json:"opening_hours"`
	IsOpen       *bool  `json:"is_open"`
}

func (r ShopRequest) input() services.ShopInput {
	return services.ShopInput{
		Name:         r.Name,
		Description:  r.Description,
		Address:      r.Address,
		Phone:        r.Phone,
		Email:        r.Email,
		OpeningHours: r.OpeningHours,
		IsOpen:       r.IsOpen,
	}
}

// CreateShop lets an owner set up their shop
func (h *Handler) CreateShop(c *gin.Context) {
	var req ShopRequest
	if !h.bindJSON(c, &req) {
		return
	}
	shop, err := h.svc.Shops.CreateShop(c.Request.Context(), middleware.GetUserID(c), req.input())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Shop created", "shop": shop})
}

// GetMyShop fetches the shop owned by the logged-in user
func (h *Handler) GetMyShop(c *gin.Context) {
	shop, err := h.svc.Shops.GetMine(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shop": shop})
}

// UpdateMyShop updates shop details; a new name means a new slug
func (h *Handler) UpdateMyShop(c *gin.Context) {
	var req ShopRequest
	if !h.bindJSON(c, &req) {
		return
	}
	shop, err := h.svc.Shops.UpdateMine(c.Request.Context(), middleware.GetUserID(c), req.input())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Shop updated", "shop": shop})
}

// ── Categories ───────────────────────────────────────────────────────────────

type CategoryRequest struct {
	Name string `json:"name"`
}

func (h *Handler) ListCategories(c *gin.Context) {
	cats, err := h.svc.Menu.ListCategories(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(cats), "categories": cats})
}

func (h *Handler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	cat, err := h.svc.Menu.CreateCategory(c.Request.Context(), middleware.GetUserID(c), req.Name)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Category created", "category": cat})
}

func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	var req CategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	cat, err := h.svc.Menu.RenameCategory(c.Request.Context(), middleware.GetUserID(c), id, req.Name)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category updated", "category": cat})
}

// DeleteCategory is refused while menu items still use the category
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Menu.DeleteCategory(c.Request.Context(), middleware.GetUserID(c), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}

// ── Menu Management ──────────────────────────────────────────────────────────

type MenuItemRequest struct {
	CategoryID  uint            `json:"category_id" binding:"required"`
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	IsAvailable *bool           `json:"is_available"`
}

func (r MenuItemRequest) input() services.MenuItemInput {
	return services.MenuItemInput{
		CategoryID:  r.CategoryID,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		ImageURL:    r.ImageURL,
		IsAvailable: r.IsAvailable,
	}
}

// ListMenuItems returns the owner's menu, optionally for one category
func (h *Handler) ListMenuItems(c *gin.Context) {
	var categoryID uint
	if raw := c.Query("category_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			h.respondError(c, apperr.Validation("category_id must be a positive integer"))
			return
		}
		categoryID = uint(id)
	}
	items, err := h.svc.Menu.ListItems(c.Request.Context(), middleware.GetUserID(c), categoryID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(items), "menu": items})
}

// AddMenuItem adds a new item to the owner's menu
func (h *Handler) AddMenuItem(c *gin.Context) {
	var req MenuItemRequest
	if !h.bindJSON(c, &req) {
		return
	}
	item, err := h.svc.Menu.CreateItem(c.Request.Context(), middleware.GetUserID(c), req.input())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Menu item added", "item": item})
}

// UpdateMenuItem replaces a menu item's details
func (h *Handler) UpdateMenuItem(c *gin.Context) {
	itemID, ok := h.idParam(c, "itemId")
	if !ok {
		return
	}
	var req MenuItemRequest
	if !h.bindJSON(c, &req) {
		return
	}
	item, err := h.svc.Menu.UpdateItem(c.Request.Context(), middleware.GetUserID(c), itemID, req.input())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item updated", "item": item})
}

// DeleteMenuItem removes a menu item
func (h *Handler) DeleteMenuItem(c *gin.Context) {
	itemID, ok := h.idParam(c, "itemId")
	if !ok {
		return
	}
	if err := h.svc.Menu.DeleteItem(c.Request.Context(), middleware.GetUserID(c), itemID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted"})
}
