package checkoutControllers

import (
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/armkstore/ecommerce-api/models"
)

// ReapAbandonedCheckouts cancels checkouts whose payment never completed
// within ttl. Cancelled is terminal: pay and finalize both reject the
// checkout afterward.
func ReapAbandonedCheckouts(db *gorm.DB, ttl time.Duration) (int64, error) {
	cutoff := time.Now().Add(-ttl)
	res := db.Model(&models.Checkout{}).
		Where("is_paid = ? AND is_finalized = ? AND is_cancelled = ? AND created_at < ?",
			false, false, false, cutoff).
		Updates(map[string]interface{}{
			"is_cancelled":   true,
			"cancelled_at":   time.Now(),
			"payment_status": "Cancelled",
		})
	return res.RowsAffected, res.Error
}

// StartCheckoutReaper runs the reaper on a fixed interval. Meant to be
// launched as a goroutine from main.
func StartCheckoutReaper(db *gorm.DB, interval, ttl time.Duration) {
	for {
		time.Sleep(interval)

		count, err := ReapAbandonedCheckouts(db, ttl)
		if err != nil {
			log.Printf("❌ Checkout reaper failed: %v", err)
			continue
		}
		if count > 0 {
			log.Printf("🗑️ Cancelled %d abandoned checkouts", count)
		}
	}
}
