package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/armkstore/ecommerce-api/auth"
	userControllers "github.com/armkstore/ecommerce-api/controllers/user"
	"github.com/armkstore/ecommerce-api/middleware"
)

// SetupUserRoutes registers registration, login, password reset, guest
// sessions and the signed-in profile.
func SetupUserRoutes(api *gin.RouterGroup, db *gorm.DB, deps Deps) {
	users := api.Group("/users")
	{
		// OTP registration flow
		users.POST("/register/request-otp", auth.RequestRegistrationOTP(db, deps.Codes, deps.Mailer))
		users.POST("/register/resend-otp", auth.RequestRegistrationOTP(db, deps.Codes, deps.Mailer))
		users.POST("/register/verify", auth.VerifyRegistration(db, deps.Codes))

		users.POST("/login", auth.Login(db))
		users.POST("/forgot-password", auth.ForgotPassword(db, deps.Codes, deps.Mailer))
		users.POST("/reset-password", auth.ResetPassword(db, deps.Codes))

		users.GET("/profile", middleware.ValidateToken, userControllers.GetProfile(db))
	}

	api.POST("/auth/guest", auth.CreateGuestUser(db))

	api.POST("/subscribe", userControllers.Subscribe(db))
}
