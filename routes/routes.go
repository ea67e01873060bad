package routes

import (
	"net/http"

	"food-ordering-api/handlers"
	"food-ordering-api/middleware"
	"food-ordering-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, h *handlers.Handler, issuer *middleware.TokenIssuer) {
	r.Use(middleware.CORS())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "Shop Ordering API",
			"version": "1.0.0",
		})
	})

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Welcome to the Shop Ordering API",
			"docs":    "/api/order-pipeline",
			"health":  "/health",
			"roles":   []models.UserRole{models.RoleCustomer, models.RoleOwner},
		})
	})

	// ── Payment widget helpers ─────────────────────────────────────
	r.POST("/create-order", h.CreatePaymentOrder)
	r.POST("/verify-payment", h.VerifyPayment)

	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		// Auth
		public.POST("/auth/register", h.Register)
		public.POST("/auth/login", h.Login)
		public.POST("/auth/anonymous", h.SignInAnonymously)

		// Storefronts (no auth needed)
		public.GET("/shops", h.ListShops)
		public.GET("/shops/:slug", h.GetShop)
		public.GET("/shops/:slug/menu", h.GetShopMenu)

		public.GET("/order-pipeline", h.GetOrderPipeline)
	}

	// ── Authenticated routes ───────────────────────────────────────
	auth := r.Group("/api")
	auth.Use(middleware.AuthRequired(issuer))
	{
		auth.GET("/profile", h.GetProfile)
		auth.GET("/profile/shops", h.GetLinkedShops)
		auth.POST("/shops/:slug/link", h.LinkShop)

		// Order chat, open to the customer and the shop owner
		auth.GET("/orders/:id/messages", h.ListMessages)
		auth.POST("/orders/:id/messages", h.SendMessage)
	}

	r.GET("/ws/orders/:id/chat", middleware.AuthRequired(issuer), h.ChatSocket)

	// ── Customer routes ────────────────────────────────────────────
	customer := r.Group("/api/customer")
	customer.Use(middleware.AuthRequired(issuer), middleware.RoleRequired(models.RoleCustomer))
	{
		customer.GET("/cart/:shopId", h.GetCart)
		customer.POST("/cart/:shopId/items", h.AddCartItem)
		customer.PUT("/cart/:shopId/items/:itemId", h.UpdateCartItem)
		customer.DELETE("/cart/:shopId/items/:itemId", h.RemoveCartItem)
		customer.DELETE("/cart/:shopId", h.ClearCart)

		customer.POST("/checkout/:shopId/payment", h.StartCheckout)
		customer.POST("/checkout/:shopId/confirm", h.ConfirmCheckout)
		customer.POST("/checkout/:shopId/abort", h.AbortCheckout)

		customer.GET("/orders", h.GetMyOrders)
		customer.GET("/orders/:id", h.GetOrderDetail)

		customer.GET("/location", h.GetMyLocation)
		customer.PUT("/location", h.UpdateMyLocation)
	}

	// ── Shop owner routes ──────────────────────────────────────────
	owner := r.Group("/api/owner")
	owner.Use(middleware.AuthRequired(issuer), middleware.RoleRequired(models.RoleOwner))
	{
		// Shop management
		owner.POST("/shop", h.CreateShop)
		owner.GET("/shop", h.GetMyShop)
		owner.PUT("/shop", h.UpdateMyShop)

		// Categories
		owner.GET("/categories", h.ListCategories)
		owner.POST("/categories", h.CreateCategory)
		owner.PUT("/categories/:id", h.UpdateCategory)
		owner.DELETE("/categories/:id", h.DeleteCategory)

		// Menu management
		owner.GET("/menu", h.ListMenuItems)
		owner.POST("/menu", h.AddMenuItem)
		owner.PUT("/menu/:itemId", h.UpdateMenuItem)
		owner.DELETE("/menu/:itemId", h.DeleteMenuItem)

		// Order management
		owner.GET("/orders", h.GetShopOrders)
		owner.GET("/orders/:id", h.GetShopOrder)
		owner.PUT("/orders/:id/status", h.UpdateOrderStatus)
		owner.POST("/orders/:id/advance", h.AdvanceOrder)
		owner.GET("/orders/:id/location", h.GetOrderCustomerLocation)

		owner.GET("/dashboard", h.GetDashboard)
		owner.GET("/payments", h.GetPayouts)
	}
}
