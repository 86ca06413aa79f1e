package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	orderControllers "github.com/armkstore/ecommerce-api/controllers/order"
	productControllers "github.com/armkstore/ecommerce-api/controllers/product"
	userControllers "github.com/armkstore/ecommerce-api/controllers/user"
	"github.com/armkstore/ecommerce-api/middleware"
)

// SetupAdminRoutes registers all "/api/admin/*" endpoints. Requires a valid
// token with the admin role.
func SetupAdminRoutes(api *gin.RouterGroup, db *gorm.DB, deps Deps) {
	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.ValidateToken, middleware.AdminOnly)
	{
		// ─────────── User Management ───────────
		userAdmin := adminGroup.Group("/users")
		{
			userAdmin.GET("", userControllers.GetAllUsers(db))
			userAdmin.POST("", userControllers.CreateUser(db))
			userAdmin.PUT("/:id", userControllers.UpdateUser(db))
			userAdmin.DELETE("/:id", userControllers.DeleteUser(db))
		}

		// ─────────── Product Management ───────────
		productAdmin := adminGroup.Group("/products")
		{
			productAdmin.GET("", productControllers.GetAllProductsAdmin(db))
			productAdmin.POST("", productControllers.CreateProduct(db))
			productAdmin.PUT("/:id", productControllers.UpdateProduct(db))
			productAdmin.DELETE("/:id", productControllers.DeleteProduct(db))
		}

		// ─────────── Order Management ───────────
		orderAdmin := adminGroup.Group("/orders")
		{
			orderAdmin.GET("", orderControllers.ListOrdersHandler(db))
			orderAdmin.GET("/export-excel", orderControllers.ExportOrdersToExcel(db))
			orderAdmin.GET("/ws", orderControllers.OrderFeedHandler)
			orderAdmin.PUT("/:id", orderControllers.UpdateOrderStatusHandler(db, deps.Mailer))
			orderAdmin.DELETE("/:id", orderControllers.DeleteOrderHandler(db))
		}
	}
}
