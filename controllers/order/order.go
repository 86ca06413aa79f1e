package orderControllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/armkstore/ecommerce-api/middleware"
	"github.com/armkstore/ecommerce-api/models"
	"github.com/armkstore/ecommerce-api/services"
)

// -------- Request Structs --------

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// -------- User Handlers --------

// GET /api/orders/my-orders
func MyOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var orders []models.Order
		if err := db.
			Where("user_id = ?", userID).
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /api/orders/:id
func GetOrderByIDHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		id := c.Param("id")
		query := db.Preload("User").Preload("Items")
		// Numeric params resolve by primary key, anything else by order_ref;
		// the integer column is never compared against a reference string
		if n, err := strconv.ParseUint(id, 10, 64); err == nil {
			query = query.Where("id = ?", n)
		} else {
			query = query.Where("order_ref = ?", id)
		}

		var order models.Order
		if err := query.First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found."})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}

		role, _ := c.Get("role")
		if order.UserID != userID && role != "admin" {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found."})
			return
		}

		c.JSON(http.StatusOK, order)
	}
}

// -------- Admin Handlers --------

// GET /api/admin/orders
// Optional filters: status, from/to (RFC3339 or 2006-01-02) and a free-text
// search over order reference and customer name/email.
func ListOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&models.Order{}).
			Preload("User").
			Preload("Items")

		if status := c.Query("status"); status != "" {
			mapped, ok := models.ValidOrderStatus(status)
			if !ok {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order status"})
				return
			}
			query = query.Where("orders.status = ?", mapped)
		}

		if from := c.Query("from"); from != "" {
			if t, err := parseDate(from); err == nil {
				query = query.Where("orders.created_at >= ?", t)
			} else {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from date"})
				return
			}
		}
		if to := c.Query("to"); to != "" {
			if t, err := parseDate(to); err == nil {
				query = query.Where("orders.created_at <= ?", t)
			} else {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to date"})
				return
			}
		}

		if search := c.Query("search"); search != "" {
			likePattern := "%" + search + "%"
			query = query.
				Joins("JOIN users ON users.id = orders.user_id").
				Where("orders.order_ref LIKE ? OR users.name LIKE ? OR users.email LIKE ?",
					likePattern, likePattern, likePattern)
		}

		var orders []models.Order
		if err := query.Order("orders.created_at DESC").Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// PUT /api/admin/orders/:id
// Delivered additionally flips is_delivered and stamps the delivery time.
func UpdateOrderStatusHandler(db *gorm.DB, mailer services.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
			return
		}

		newStatus, ok := models.ValidOrderStatus(req.Status)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order status"})
			return
		}

		var order models.Order
		if err := db.Preload("User").Preload("Items").First(&order, "id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "No order found."})
			return
		}

		updates := map[string]interface{}{"status": newStatus}
		if newStatus == models.OrderStatusDelivered {
			now := time.Now()
			updates["is_delivered"] = true
			updates["delivered_at"] = now
			order.IsDelivered = true
			order.DeliveredAt = &now
		}
		order.Status = newStatus

		if err := db.Model(&models.Order{}).Where("id = ?", order.ID).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}

		// Buyer notification is best-effort
		if mailer != nil {
			if err := mailer.SendOrderStatusUpdate(order.User, order); err != nil {
				log.Printf("📧 Status update email failed for order %s: %v", order.OrderRef, err)
			}
		}

		BroadcastOrderUpdate(order)

		c.JSON(http.StatusOK, order)
	}
}

// DELETE /api/admin/orders/:id
func DeleteOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("id")

		var order models.Order
		if err := db.First(&order, "id = ?", orderID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("order_id = ?", order.ID).
				Delete(&models.OrderItem{}).Error; err != nil {
				return err
			}
			return tx.Delete(&order).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete order"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order deleted"})
	}
}
