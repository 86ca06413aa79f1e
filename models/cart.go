package models

import "time"

// Cart belongs to exactly one owner: a registered user OR a guest session.
type Cart struct {
	CartID     uint       `gorm:"primaryKey" json:"cart_id"`
	UserID     *uint      `gorm:"uniqueIndex" json:"user_id,omitempty"`  // Enforces ONE cart per user
	GuestID    *string    `gorm:"uniqueIndex" json:"guest_id,omitempty"` // Enforces ONE cart per guest
	Items      []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"` // Cascade delete items if cart is deleted
	TotalPrice float64    `json:"total_price"` // Derived: recomputed from items on every mutation
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CartID    uint      `gorm:"index" json:"-"` // Faster queries
	ProductID uint      `json:"product_id"`
	Name      string    `json:"name"`
	Image     string    `json:"image"`
	Price     float64   `json:"price"` // Snapshot of the product price at add-time
	Size      string    `json:"size"`
	Color     string    `json:"color"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
}

// Subtotal recomputes the derived cart total from its items.
func (c *Cart) Subtotal() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}
