package models

import "time"

type PaymentMethod string

const (
	PaymentMethodCOD      PaymentMethod = "COD"
	PaymentMethodPayPal   PaymentMethod = "paypal"
	PaymentMethodRazorpay PaymentMethod = "razorpay"
)

// Checkout is a snapshot of a cart taken at checkout-start. It walks a one-way
// lifecycle: created -> paid -> finalized, or created -> cancelled when the
// payment never completes.
type Checkout struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	UserID          uint            `gorm:"not null;index" json:"user_id"`
	User            User            `gorm:"foreignKey:UserID" json:"user"`
	Items           []CheckoutItem  `gorm:"foreignKey:CheckoutID;constraint:OnDelete:CASCADE" json:"checkout_items"`
	ShippingAddress ShippingAddress `gorm:"embedded;embeddedPrefix:ship_" json:"shipping_address"`
	PaymentMethod   PaymentMethod   `gorm:"type:VARCHAR(20);not null" json:"payment_method"`
	TotalPrice      float64         `gorm:"not null" json:"total_price"`
	IsPaid          bool            `json:"is_paid"`
	PaidAt          *time.Time      `json:"paid_at,omitempty"`
	PaymentStatus   string          `gorm:"default:'Pending'" json:"payment_status"`
	PaymentDetails  string          `json:"payment_details,omitempty"` // Opaque gateway payload, stored as raw JSON
	RazorpayOrderID string          `json:"razorpay_order_id,omitempty"` // Reused across repeated open-payment calls
	IsFinalized     bool            `json:"is_finalized"`
	FinalizedAt     *time.Time      `json:"finalized_at,omitempty"`
	IsCancelled     bool            `json:"is_cancelled"`
	CancelledAt     *time.Time      `json:"cancelled_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// CheckoutItem is an immutable copy of a cart item. Later product edits must
// not affect it.
type CheckoutItem struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	CheckoutID uint    `gorm:"index" json:"-"`
	ProductID  uint    `gorm:"not null" json:"product_id"`
	Name       string  `gorm:"not null" json:"name"`
	Image      string  `json:"image"`
	Price      float64 `gorm:"not null" json:"price"`
	Quantity   int     `gorm:"not null" json:"quantity"`
	Color      string  `json:"color"`
}

// ValidPaymentMethod reports whether m is one of the accepted methods.
func ValidPaymentMethod(m string) (PaymentMethod, bool) {
	switch PaymentMethod(m) {
	case PaymentMethodCOD, PaymentMethodPayPal, PaymentMethodRazorpay:
		return PaymentMethod(m), true
	default:
		return "", false
	}
}
