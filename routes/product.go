package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	productControllers "github.com/armkstore/ecommerce-api/controllers/product"
)

// SetupProductRoutes registers public catalog browsing.
func SetupProductRoutes(api *gin.RouterGroup, db *gorm.DB) {
	products := api.Group("/products")
	{
		products.GET("", productControllers.GetProducts(db))
		products.GET("/best-seller", productControllers.GetBestSeller(db))
		products.GET("/new-arrivals", productControllers.GetNewArrivals(db))
		products.GET("/similar/:id", productControllers.GetSimilarProducts(db))
		products.GET("/:id", productControllers.GetProductByID(db))
	}
}
