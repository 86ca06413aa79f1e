package productControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/armkstore/ecommerce-api/models"
)

type ProductInput struct {
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description" binding:"required"`
	Price         float64  `json:"price" binding:"required"`
	DiscountPrice float64  `json:"discount_price"`
	SKU           string   `json:"sku" binding:"required"`
	Category      string   `json:"category" binding:"required"`
	Colors        []string `json:"colors"`
	Sizes         []string `json:"sizes"`
	Images        []string `json:"images"`
	Tags          []string `json:"tags"`
	Stock         int      `json:"stock"`
	Weight        float64  `json:"weight"`
	IsFeatured    *bool    `json:"is_featured"`
	IsPublished   *bool    `json:"is_published"`
}

// POST /api/admin/products
func CreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		product := models.Product{
			Name:          input.Name,
			Description:   input.Description,
			Price:         input.Price,
			DiscountPrice: input.DiscountPrice,
			SKU:           input.SKU,
			Category:      input.Category,
			Colors:        input.Colors,
			Sizes:         input.Sizes,
			Images:        input.Images,
			Tags:          input.Tags,
			Stock:         input.Stock,
			Weight:        input.Weight,
		}
		if input.IsFeatured != nil {
			product.IsFeatured = *input.IsFeatured
		}
		if input.IsPublished != nil {
			product.IsPublished = *input.IsPublished
		}

		if err := db.Create(&product).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to create product"})
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}

// PUT /api/admin/products/:id
func UpdateProduct(db *gorm.DB) gin.HandlerFunc {
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

		var input ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		product.Name = input.Name
		product.Description = input.Description
		product.Price = input.Price
		product.DiscountPrice = input.DiscountPrice
		product.SKU = input.SKU
		product.Category = input.Category
		product.Colors = input.Colors
		product.Sizes = input.Sizes
		product.Images = input.Images
		product.Tags = input.Tags
		product.Stock = input.Stock
		product.Weight = input.Weight
		if input.IsFeatured != nil {
			product.IsFeatured = *input.IsFeatured
		}
		if input.IsPublished != nil {
			product.IsPublished = *input.IsPublished
		}

		if err := db.Save(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

// DELETE /api/admin/products/:id
func DeleteProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := db.Delete(&models.Product{}, "id = ?", c.Param("id"))
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
	}
}

// GET /api/admin/products (includes unpublished)
func GetAllProductsAdmin(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products []models.Product
		if err := db.Order("created_at DESC").Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}
		c.JSON(http.StatusOK, products)
	}
}
