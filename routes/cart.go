package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	cartControllers "github.com/armkstore/ecommerce-api/controllers/cart"
	"github.com/armkstore/ecommerce-api/middleware"
)

// SetupCartRoutes registers cart operations. The cart itself is open to
// guests; merging requires a signed-in user.
func SetupCartRoutes(api *gin.RouterGroup, db *gorm.DB) {
	cart := api.Group("/cart")
	{
		cart.GET("", cartControllers.GetCart(db))
		cart.POST("", cartControllers.AddToCart(db))
		cart.PUT("", cartControllers.UpdateCartItem(db))
		cart.DELETE("", cartControllers.RemoveFromCart(db))

		cart.POST("/merge", middleware.ValidateToken, cartControllers.MergeCarts(db))
	}
}
