package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	orderControllers "github.com/armkstore/ecommerce-api/controllers/order"
	"github.com/armkstore/ecommerce-api/middleware"
)

// SetupOrderRoutes registers the buyer-facing order history.
func SetupOrderRoutes(api *gin.RouterGroup, db *gorm.DB) {
	orders := api.Group("/orders")
	orders.Use(middleware.ValidateToken)
	{
		// Fetch the signed-in user's orders, newest first
		orders.GET("/my-orders", orderControllers.MyOrdersHandler(db))

		// Fetch a single order by id or order_ref
		orders.GET("/:id", orderControllers.GetOrderByIDHandler(db))
	}
}
