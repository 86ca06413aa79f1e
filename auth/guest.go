package auth

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/armkstore/ecommerce-api/models"
)

// POST /api/auth/guest
// Issues an anonymous identity so visitors can build a cart before signing
// up. The session and its token share the same lifetime.
func CreateGuestUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		guest := models.GuestUser{
			ID:        "guest_" + uuid.NewString(),
			ExpiresAt: time.Now().Add(guestTokenTTL),
		}
		if err := db.Create(&guest).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create guest"})
			return
		}

		token, err := IssueGuestToken(guest.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"guest_id":   guest.ID,
			"token":      token,
			"expires_at": guest.ExpiresAt,
		})
	}
}

// ReapExpiredGuests removes guest identities past their expiry, together with
// any cart they still own. Carts merged into a user account are untouched.
func ReapExpiredGuests(db *gorm.DB) (int64, error) {
	var expired []models.GuestUser
	if err := db.Where("expires_at < ?", time.Now()).Find(&expired).Error; err != nil {
		return 0, err
	}
	if len(expired) == 0 {
		return 0, nil
	}

	ids := make([]string, 0, len(expired))
	for _, guest := range expired {
		ids = append(ids, guest.ID)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var carts []models.Cart
		if err := tx.Where("guest_id IN ?", ids).Find(&carts).Error; err != nil {
			return err
		}
		for _, cart := range carts {
			if err := tx.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("guest_id IN ?", ids).Delete(&models.Cart{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", ids).Delete(&models.GuestUser{}).Error
	})
	if err != nil {
		return 0, err
	}
	return int64(len(ids)), nil
}

// StartGuestReaper runs the guest cleanup on a fixed interval. Meant to be
// launched as a goroutine from main.
func StartGuestReaper(db *gorm.DB, interval time.Duration) {
	for {
		time.Sleep(interval)

		count, err := ReapExpiredGuests(db)
		if err != nil {
			log.Printf("❌ Guest reaper failed: %v", err)
			continue
		}
		if count > 0 {
			log.Printf("🗑️ Removed %d expired guest sessions", count)
		}
	}
}
