package cartControllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/armkstore/ecommerce-api/middleware"
	"github.com/armkstore/ecommerce-api/models"
)

type cartOwner struct {
	UserID  *uint   `json:"userId"`
	GuestID *string `json:"guestId"`
}

type AddItemInput struct {
	ProductID uint   `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	cartOwner
}

type UpdateItemInput struct {
	ProductID uint   `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"` // <=0 removes the item
	Size      string `json:"size"`
	Color     string `json:"color"`
	cartOwner
}

type RemoveItemInput struct {
	ProductID uint   `json:"productId" binding:"required"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	cartOwner
}

// findCart resolves a cart by its owner: user id when present, guest id
// otherwise.
func findCart(db *gorm.DB, userID *uint, guestID *string) (*models.Cart, error) {
	var cart models.Cart
	query := db.Preload("Items")
	switch {
	case userID != nil:
		query = query.Where("user_id = ?", *userID)
	case guestID != nil && *guestID != "":
		query = query.Where("guest_id = ?", *guestID)
	default:
		return nil, gorm.ErrRecordNotFound
	}
	if err := query.First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// recomputeTotal persists the derived total. Every mutating operation calls
// this; nothing else may write cart.total_price.
func recomputeTotal(db *gorm.DB, cart *models.Cart) error {
	if err := db.Preload("Items").First(cart, cart.CartID).Error; err != nil {
		return err
	}
	return db.Model(cart).Update("total_price", cart.Subtotal()).Error
}

// POST /api/cart
func AddToCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input AddItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		// Snapshot price from the current product record
		var product models.Product
		if err := db.First(&product, "id = ?", input.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}

		cart, err := findCart(db, input.UserID, input.GuestID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
				return
			}
			if input.UserID == nil && (input.GuestID == nil || *input.GuestID == "") {
				c.JSON(http.StatusBadRequest, gin.H{"error": "userId or guestId is required"})
				return
			}
			cart = &models.Cart{UserID: input.UserID, GuestID: input.GuestID}
			if err := db.Create(cart).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create cart"})
				return
			}
		}

		// Matching line: same product and color
		var item models.CartItem
		err = db.Where("cart_id = ? AND product_id = ? AND color = ?",
			cart.CartID, input.ProductID, input.Color).First(&item).Error
		if err == nil {
			item.Quantity += input.Quantity
			item.AddedAt = time.Now()
			if err := db.Save(&item).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart item"})
				return
			}
		} else if errors.Is(err, gorm.ErrRecordNotFound) {
			newItem := models.CartItem{
				CartID:    cart.CartID,
				ProductID: product.ID,
				Name:      product.Name,
				Image:     product.PrimaryImage(),
				Price:     product.EffectivePrice(),
				Size:      input.Size,
				Color:     input.Color,
				Quantity:  input.Quantity,
				AddedAt:   time.Now(),
			}
			if err := db.Create(&newItem).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item to cart"})
				return
			}
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}

		if err := recomputeTotal(db, cart); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

// PUT /api/cart
func UpdateCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input UpdateItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		cart, err := findCart(db, input.UserID, input.GuestID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart not found"})
			return
		}

		var item models.CartItem
		err = db.Where("cart_id = ? AND product_id = ? AND size = ? AND color = ?",
			cart.CartID, input.ProductID, input.Size, input.Color).First(&item).Error
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found in cart"})
			return
		}

		if input.Quantity > 0 {
			item.Quantity = input.Quantity
			if err := db.Save(&item).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart item"})
				return
			}
		} else {
			// A non-positive quantity removes the line instead of persisting it
			if err := db.Delete(&item).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove cart item"})
				return
			}
		}

		if err := recomputeTotal(db, cart); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

// DELETE /api/cart
func RemoveFromCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RemoveItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		cart, err := findCart(db, input.UserID, input.GuestID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart not found"})
			return
		}

		result := db.Where("cart_id = ? AND product_id = ? AND size = ? AND color = ?",
			cart.CartID, input.ProductID, input.Size, input.Color).Delete(&models.CartItem{})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found in the cart"})
			return
		}

		if err := recomputeTotal(db, cart); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

// GET /api/cart
func GetCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var userID *uint
		if idStr := c.Query("userId"); idStr != "" {
			if parsed, err := strconv.ParseUint(idStr, 10, 64); err == nil {
				id := uint(parsed)
				userID = &id
			}
		}
		guestID := c.Query("guestId")

		var guestPtr *string
		if guestID != "" {
			guestPtr = &guestID
		}

		cart, err := findCart(db, userID, guestPtr)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart not found"})
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

// POST /api/cart/merge?guestId=...
// Combines the guest cart into the signed-in user's cart: quantities add for
// matching product+size+color lines, other lines append. The guest cart is
// deleted afterward.
func MergeCarts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		guestID := c.Query("guestId")

		var guestCart models.Cart
		guestErr := db.Preload("Items").Where("guest_id = ?", guestID).First(&guestCart).Error

		var userCart models.Cart
		userErr := db.Preload("Items").Where("user_id = ?", userID).First(&userCart).Error

		if guestErr != nil {
			if userErr == nil {
				// No guest cart: the user cart is returned unchanged
				c.JSON(http.StatusOK, userCart)
				return
			}
			c.JSON(http.StatusNotFound, gin.H{"error": "Guest cart not found"})
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if userErr != nil {
				// No user cart yet: adopt the guest cart wholesale
				updates := map[string]interface{}{"user_id": userID, "guest_id": nil}
				return tx.Model(&guestCart).Updates(updates).Error
			}

			for _, guestItem := range guestCart.Items {
				var userItem models.CartItem
				lookupErr := tx.Where(
					"cart_id = ? AND product_id = ? AND size = ? AND color = ?",
					userCart.CartID, guestItem.ProductID, guestItem.Size, guestItem.Color,
				).First(&userItem).Error

				if lookupErr == nil {
					userItem.Quantity += guestItem.Quantity
					userItem.AddedAt = time.Now()
					if err := tx.Save(&userItem).Error; err != nil {
						return err
					}
				} else if errors.Is(lookupErr, gorm.ErrRecordNotFound) {
					newItem := models.CartItem{
						CartID:    userCart.CartID,
						ProductID: guestItem.ProductID,
						Name:      guestItem.Name,
						Image:     guestItem.Image,
						Price:     guestItem.Price,
						Size:      guestItem.Size,
						Color:     guestItem.Color,
						Quantity:  guestItem.Quantity,
						AddedAt:   time.Now(),
					}
					if err := tx.Create(&newItem).Error; err != nil {
						return err
					}
				} else {
					return lookupErr
				}
			}

			if err := tx.Where("cart_id = ?", guestCart.CartID).Delete(&models.CartItem{}).Error; err != nil {
				return err
			}
			return tx.Delete(&guestCart).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}

		// Reload whichever cart now belongs to the user and fix its total
		var merged models.Cart
		if err := db.Preload("Items").Where("user_id = ?", userID).First(&merged).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}
		if err := recomputeTotal(db, &merged); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}
		c.JSON(http.StatusOK, merged)
	}
}
