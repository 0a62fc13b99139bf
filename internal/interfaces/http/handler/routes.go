package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/pharma/backend/internal/domain/pharmacy"
	"github.com/pharma/backend/internal/interfaces/http/middleware"
)

// RegisterRoutes wires the auth endpoints
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	auth.POST("/login", h.Login)
	auth.POST("/refresh", h.Refresh)
}

// RegisterRoutes wires the user endpoints. User management is admin-only
// when the JWT guard runs in enforce mode.
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	users.Use(middleware.RequireRole(string(pharmacy.RoleAdmin)))
	users.GET("", h.List)
	users.POST("", h.Create)
	users.GET("/:id", h.Get)
	users.PUT("/:id", h.Update)
	users.DELETE("/:id", h.Delete)
}

// RegisterRoutes wires the product endpoints. The stock query routes
// must precede /:id so gin does not treat them as identifiers.
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	products.GET("", h.List)
	products.POST("", h.Create)
	products.GET("/low-stock", h.LowStock)
	products.GET("/expired", h.Expired)
	products.GET("/:id", h.Get)
	products.PUT("/:id", h.Update)
	products.DELETE("/:id", h.Delete)
}

// RegisterRoutes wires the category endpoints
func (h *CategoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	categories := rg.Group("/categories")
	categories.GET("", h.List)
	categories.POST("", h.Create)
	categories.GET("/:id", h.Get)
	categories.PUT("/:id", h.Update)
	categories.DELETE("/:id", h.Delete)
}

// RegisterRoutes wires the supplier endpoints
func (h *SupplierHandler) RegisterRoutes(rg *gin.RouterGroup) {
	suppliers := rg.Group("/suppliers")
	suppliers.GET("", h.List)
	suppliers.POST("", h.Create)
	suppliers.GET("/:id", h.Get)
	suppliers.PUT("/:id", h.Update)
	suppliers.DELETE("/:id", h.Delete)
}

// RegisterRoutes wires the customer endpoints
func (h *CustomerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	customers := rg.Group("/customers")
	customers.GET("", h.List)
	customers.POST("", h.Create)
	customers.GET("/:id", h.Get)
	customers.PUT("/:id", h.Update)
	customers.DELETE("/:id", h.Delete)
}

// RegisterRoutes wires the transaction endpoints
func (h *TransactionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	transactions := rg.Group("/transactions")
	transactions.GET("", h.List)
	transactions.POST("", h.Create)
	transactions.GET("/:id", h.Get)
	transactions.GET("/:id/items", h.Items)

	rg.POST("/transaction-items", h.CreateItem)
}

// RegisterRoutes wires the dashboard endpoints
func (h *DashboardHandler) RegisterRoutes(rg *gin.RouterGroup) {
	dashboard := rg.Group("/dashboard")
	dashboard.GET("/stats", h.Stats)
	dashboard.GET("/sales", h.Sales)
	dashboard.GET("/categories", h.CategoryShare)
	dashboard.GET("/recent-transactions", h.RecentTransactions)
	dashboard.GET("/low-stock", h.LowStock)
}

// RegisterRoutes wires the health endpoint
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
}
