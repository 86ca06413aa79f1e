package models

import "time"

type OrderStatus string

const (
	// Fulfillment statuses (typical e-commerce flow)
	OrderStatusProcessing OrderStatus = "Processing" // Order placed, being prepared
	OrderStatusShipped    OrderStatus = "Shipped"    // Out for delivery
	OrderStatusDelivered  OrderStatus = "Delivered"  // Customer received the item
	OrderStatusCancelled  OrderStatus = "Cancelled"  // Cancelled before shipping
)

// ShippingAddress is embedded into checkouts and orders.
type ShippingAddress struct {
	Address    string `gorm:"not null" json:"address"`
	City       string `gorm:"not null" json:"city"`
	PostalCode string `gorm:"not null" json:"postal_code"`
	Country    string `gorm:"not null" json:"country"`
}

// Order is the finalized, immutable purchase record. It is created exactly
// once per finalized checkout and only its fulfillment fields change afterward.
type Order struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	OrderRef        string          `gorm:"uniqueIndex;not null" json:"order_ref"`
	UserID          uint            `gorm:"not null;index" json:"user_id"`
	User            User            `gorm:"foreignKey:UserID" json:"user"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	ShippingAddress ShippingAddress `gorm:"embedded;embeddedPrefix:ship_" json:"shipping_address"`
	PaymentMethod   PaymentMethod   `gorm:"type:VARCHAR(20)" json:"payment_method"`
	TotalPrice      float64         `json:"total_price"`
	IsPaid          bool            `json:"is_paid"` // Always true at creation: orders come from paid checkouts
	PaidAt          *time.Time      `json:"paid_at,omitempty"`
	IsDelivered     bool            `json:"is_delivered"`
	DeliveredAt     *time.Time      `json:"delivered_at,omitempty"`
	Status          OrderStatus     `gorm:"type:VARCHAR(20);default:'Processing'" json:"status"`
	PaymentStatus   string          `json:"payment_status"`
	PaymentDetails  string          `json:"payment_details,omitempty"` // Opaque gateway payload, stored as raw JSON
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	OrderID   uint    `gorm:"index" json:"-"`
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Price     float64 `json:"price"`
	Size      string  `json:"size"`
	Color     string  `json:"color"`
	Quantity  int     `json:"quantity"`
}

// ValidOrderStatus reports whether s is one of the enumerated fulfillment
// statuses.
func ValidOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return OrderStatus(s), true
	default:
		return "", false
	}
}
