package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/armkstore/ecommerce-api/auth"
	paymentControllers "github.com/armkstore/ecommerce-api/controllers/payment"
	"github.com/armkstore/ecommerce-api/services"
)

// Deps carries the external collaborators handlers need besides the database.
type Deps struct {
	Mailer   services.Mailer
	Codes    auth.CodeStore
	Razorpay *paymentControllers.RazorpayClient
}

// SetupRoutes is the single entry-point that wires up all route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB, deps Deps) {
	api := r.Group("/api")

	// Public auth + account routes
	SetupUserRoutes(api, db, deps)

	// Catalog browsing (public)
	SetupProductRoutes(api, db)

	// Cart (guest or signed-in)
	SetupCartRoutes(api, db)

	// Checkout lifecycle (JWT-protected)
	SetupCheckoutRoutes(api, db, deps)

	// Buyer order history (JWT-protected)
	SetupOrderRoutes(api, db)

	// Admin console (JWT + admin role)
	SetupAdminRoutes(api, db, deps)
}
