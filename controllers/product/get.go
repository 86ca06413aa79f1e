package productControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/armkstore/ecommerce-api/models"
)

// GET /api/products/:id
func GetProductByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		if err := db.First(&product, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

// GET /api/products/best-seller
func GetBestSeller(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		if err := db.Where("is_published = ?", true).
			Order("rating DESC").First(&product).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "No best seller found"})
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

// GET /api/products/new-arrivals
func GetNewArrivals(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products []models.Product
		if err := db.Where("is_published = ?", true).
			Order("created_at DESC").Limit(8).Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

// GET /api/products/similar/:id
func GetSimilarProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		if err := db.First(&product, "id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		var similar []models.Product
		if err := db.Where("category = ? AND id <> ? AND is_published = ?",
			product.Category, product.ID, true).
			Limit(4).Find(&similar).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}
		c.JSON(http.StatusOK, similar)
	}
}
