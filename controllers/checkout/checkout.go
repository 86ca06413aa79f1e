package checkoutControllers

import (
	"encoding/json"
	"errors"
	"log"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	orderControllers "github.com/armkstore/ecommerce-api/controllers/order"
	paymentControllers "github.com/armkstore/ecommerce-api/controllers/payment"
	"github.com/armkstore/ecommerce-api/middleware"
	"github.com/armkstore/ecommerce-api/models"
	"github.com/armkstore/ecommerce-api/services"
)

var (
	ErrCheckoutNotFound = errors.New("checkout not found")
	ErrNotPaid          = errors.New("checkout is not paid")
	ErrAlreadyFinalized = errors.New("checkout already finalized")
	ErrCancelled        = errors.New("checkout is cancelled")
)

// -------- Request Structs --------

type CheckoutItemInput struct {
	ProductID uint    `json:"productId" binding:"required"`
	Name      string  `json:"name" binding:"required"`
	Image     string  `json:"image"`
	Price     float64 `json:"price" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required,min=1"`
	Color     string  `json:"color"`
}

// ShippingAddressInput mirrors the camelCase wire contract; the gorm model
// keeps its own column tags.
type ShippingAddressInput struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

type CreateCheckoutInput struct {
	CheckoutItems   []CheckoutItemInput  `json:"checkoutItems" binding:"required,min=1,dive"`
	ShippingAddress ShippingAddressInput `json:"shippingAddress"`
	PaymentMethod   string               `json:"paymentMethod" binding:"required"`
	TotalPrice      float64              `json:"totalPrice" binding:"required"`
}

type ConfirmPaymentInput struct {
	PaymentStatus  string          `json:"paymentStatus" binding:"required"`
	PaymentDetails json.RawMessage `json:"paymentDetails"`
}

type razorpayPaymentDetails struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

type paypalPaymentDetails struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type codPaymentDetails struct {
	Method string `json:"method"`
}

// -------- Helpers --------

// Generate unique order reference, e.g. 20250908130500-<uuid4>
func generateOrderRef() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}

func validShippingAddress(a ShippingAddressInput) bool {
	return a.Address != "" && a.City != "" && a.PostalCode != "" && a.Country != ""
}

// -------- Handlers --------

// POST /api/checkout
func CreateCheckout(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var input CreateCheckoutInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No items in checkout"})
			return
		}
		if !validShippingAddress(input.ShippingAddress) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Shipping address is incomplete"})
			return
		}
		method, ok := models.ValidPaymentMethod(input.PaymentMethod)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment method"})
			return
		}

		// Snapshot the cart lines: later product edits must not affect them
		items := make([]models.CheckoutItem, 0, len(input.CheckoutItems))
		for _, item := range input.CheckoutItems {
			color := item.Color
			if color == "" {
				color = "N/A"
			}
			items = append(items, models.CheckoutItem{
				ProductID: item.ProductID,
				Name:      item.Name,
				Image:     item.Image,
				Price:     item.Price,
				Quantity:  item.Quantity,
				Color:     color,
			})
		}

		checkout := models.Checkout{
			UserID: userID,
			Items:  items,
			ShippingAddress: models.ShippingAddress{
				Address:    input.ShippingAddress.Address,
				City:       input.ShippingAddress.City,
				PostalCode: input.ShippingAddress.PostalCode,
				Country:    input.ShippingAddress.Country,
			},
			PaymentMethod: method,
			TotalPrice:    input.TotalPrice,
			PaymentStatus: "Pending",
		}
		if err := db.Create(&checkout).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}

		log.Printf("🧾 Checkout %d created for user %d", checkout.ID, userID)
		c.JSON(http.StatusCreated, checkout)
	}
}

// POST /api/checkout/:id/razorpay-order
// A gateway order is opened once per checkout; repeated calls return the
// stored handle instead of opening duplicates.
func OpenRazorpayOrder(db *gorm.DB, gateway *paymentControllers.RazorpayClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		var checkout models.Checkout
		if err := db.First(&checkout, "id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Checkout not found"})
			return
		}
		if checkout.IsCancelled {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Checkout is cancelled"})
			return
		}

		amount := int64(math.Round(checkout.TotalPrice * 100)) // paise

		if checkout.RazorpayOrderID != "" {
			c.JSON(http.StatusOK, gin.H{"orderId": checkout.RazorpayOrderID, "amount": amount})
			return
		}

		if gateway == nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Payment gateway not configured"})
			return
		}

		order, err := gateway.CreateOrder(amount, "INR", generateOrderRef())
		if err != nil {
			log.Printf("❌ Razorpay order error for checkout %d: %v", checkout.ID, err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Payment gateway error"})
			return
		}

		if err := db.Model(&checkout).Update("razorpay_order_id", order.ID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"orderId": order.ID, "amount": order.Amount})
	}
}

// PUT /api/checkout/:id/pay
// Only the literal status "paid" is accepted, and razorpay confirmations are
// verified against the gateway signature rather than trusted from the client.
func ConfirmPayment(db *gorm.DB, gateway *paymentControllers.RazorpayClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ConfirmPaymentInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment status."})
			return
		}

		var checkout models.Checkout
		if err := db.First(&checkout, "id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "No checkout found."})
			return
		}

		if checkout.IsCancelled {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Checkout is cancelled"})
			return
		}
		if checkout.IsFinalized {
			// The order already exists; its payment record is immutable
			c.JSON(http.StatusBadRequest, gin.H{"error": "Checkout already finalized"})
			return
		}
		if input.PaymentStatus != "paid" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment status."})
			return
		}

		switch checkout.PaymentMethod {
		case models.PaymentMethodRazorpay:
			if gateway == nil {
				c.JSON(http.StatusBadGateway, gin.H{"error": "Payment gateway not configured"})
				return
			}
			var details razorpayPaymentDetails
			if err := json.Unmarshal(input.PaymentDetails, &details); err != nil ||
				details.OrderID != checkout.RazorpayOrderID ||
				!gateway.VerifyPaymentSignature(details.OrderID, details.PaymentID, details.Signature) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Payment verification failed"})
				return
			}
		case models.PaymentMethodPayPal:
			var details paypalPaymentDetails
			if err := json.Unmarshal(input.PaymentDetails, &details); err != nil ||
				details.ID == "" || details.Status != "COMPLETED" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Payment verification failed"})
				return
			}
		case models.PaymentMethodCOD:
			// Cash on delivery still needs an explicit acknowledgement
			var details codPaymentDetails
			if err := json.Unmarshal(input.PaymentDetails, &details); err != nil ||
				details.Method != "COD" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Payment verification failed"})
				return
			}
		}

		now := time.Now()
		updates := map[string]interface{}{
			"is_paid":         true,
			"payment_status":  input.PaymentStatus,
			"payment_details": string(input.PaymentDetails),
			"paid_at":         now,
		}
		if err := db.Model(&checkout).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}

		if err := db.Preload("Items").First(&checkout, checkout.ID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}
		c.JSON(http.StatusOK, checkout)
	}
}

// -------- Core Logic --------

// FinalizeCheckout turns a paid checkout into an immutable order. The
// is_finalized flag is flipped with a single conditional update, so exactly
// one caller wins even when finalize is invoked concurrently; cart cleanup
// commits in the same transaction as the order.
func FinalizeCheckout(db *gorm.DB, checkoutID uint) (*models.Order, error) {
	var created models.Order

	err := db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.Model(&models.Checkout{}).
			Where("id = ? AND is_paid = ? AND is_finalized = ?", checkoutID, true, false).
			Updates(map[string]interface{}{"is_finalized": true, "finalized_at": now})
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			// Distinguish the losing cases with a fresh read
			var checkout models.Checkout
			if err := tx.First(&checkout, checkoutID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrCheckoutNotFound
				}
				return err
			}
			if checkout.IsFinalized {
				return ErrAlreadyFinalized
			}
			if checkout.IsCancelled {
				return ErrCancelled
			}
			return ErrNotPaid
		}

		var checkout models.Checkout
		if err := tx.Preload("Items").First(&checkout, checkoutID).Error; err != nil {
			return err
		}

		orderItems := make([]models.OrderItem, 0, len(checkout.Items))
		for _, item := range checkout.Items {
			orderItems = append(orderItems, models.OrderItem{
				ProductID: item.ProductID,
				Name:      item.Name,
				Image:     item.Image,
				Price:     item.Price,
				Color:     item.Color,
				Quantity:  item.Quantity,
			})
		}

		created = models.Order{
			OrderRef:        generateOrderRef(),
			UserID:          checkout.UserID,
			Items:           orderItems,
			ShippingAddress: checkout.ShippingAddress,
			PaymentMethod:   checkout.PaymentMethod,
			TotalPrice:      checkout.TotalPrice,
			IsPaid:          true,
			PaidAt:          checkout.PaidAt,
			IsDelivered:     false,
			Status:          models.OrderStatusProcessing,
			PaymentStatus:   "paid",
			PaymentDetails:  checkout.PaymentDetails,
		}
		if err := tx.Create(&created).Error; err != nil {
			return err
		}

		// Delete the owning user's cart; this succeeds or fails with the order
		var cart models.Cart
		err := tx.Where("user_id = ?", checkout.UserID).First(&cart).Error
		if err == nil {
			if err := tx.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&cart).Error; err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// POST /api/checkout/:id/finalize
func FinalizeCheckoutHandler(db *gorm.DB, mailer services.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var checkout models.Checkout
		if err := db.First(&checkout, "id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Checkout not found"})
			return
		}

		order, err := FinalizeCheckout(db, checkout.ID)
		switch {
		case errors.Is(err, ErrCheckoutNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Checkout not found"})
			return
		case errors.Is(err, ErrAlreadyFinalized):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Checkout already finalized"})
			return
		case errors.Is(err, ErrNotPaid):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Checkout is not paid"})
			return
		case errors.Is(err, ErrCancelled):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Checkout is cancelled"})
			return
		case err != nil:
			log.Printf("❌ Finalize error for checkout %s: %v", c.Param("id"), err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}

		// Confirmation mail is best-effort: the order stands either way
		var user models.User
		if dbErr := db.First(&user, checkout.UserID).Error; dbErr == nil && mailer != nil {
			if mailErr := mailer.SendOrderConfirmation(user, *order); mailErr != nil {
				log.Printf("📧 Order confirmation email failed for order %s: %v", order.OrderRef, mailErr)
			}
		}

		orderControllers.BroadcastOrderUpdate(*order)

		log.Printf("✅ Checkout %d finalized as order %s", checkout.ID, order.OrderRef)
		c.JSON(http.StatusCreated, order)
	}
}
