package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	checkoutControllers "github.com/armkstore/ecommerce-api/controllers/checkout"
	"github.com/armkstore/ecommerce-api/middleware"
)

// SetupCheckoutRoutes registers the checkout lifecycle. Every step requires
// authentication.
func SetupCheckoutRoutes(api *gin.RouterGroup, db *gorm.DB, deps Deps) {
	checkout := api.Group("/checkout")
	checkout.Use(middleware.ValidateToken)
	{
		checkout.POST("", checkoutControllers.CreateCheckout(db))
		checkout.POST("/:id/razorpay-order", checkoutControllers.OpenRazorpayOrder(db, deps.Razorpay))
		checkout.PUT("/:id/pay", checkoutControllers.ConfirmPayment(db, deps.Razorpay))
		checkout.POST("/:id/finalize", checkoutControllers.FinalizeCheckoutHandler(db, deps.Mailer))
	}
}
