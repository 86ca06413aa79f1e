package auth

import (
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/armkstore/ecommerce-api/models"
	"github.com/armkstore/ecommerce-api/services"
)

const otpTTL = 10 * time.Minute

type requestOTPInput struct {
	Email string `json:"email" binding:"required,email"`
}

type verifyRegistrationInput struct {
	Email    string `json:"email" binding:"required,email"`
	OTP      string `json:"otp" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

type loginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type resetPasswordInput struct {
	Email    string `json:"email" binding:"required,email"`
	OTP      string `json:"otp" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

// POST /api/users/register/request-otp
// Also serves resend: requesting again simply overwrites the stored code.
func RequestRegistrationOTP(db *gorm.DB, codes CodeStore, mailer services.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input requestOTPInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
			return
		}

		var existing models.User
		err := db.Where("email = ?", input.Email).First(&existing).Error
		if err == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User with this email already exists"})
			return
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}

		code := generateOTP()
		if err := codes.Set(c.Request.Context(), "register:"+input.Email, code, otpTTL); err != nil {
			log.Printf("❌ Failed to store registration OTP: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}

		if err := mailer.SendOTP(input.Email, code, "verification"); err != nil {
			log.Printf("❌ Failed to send registration OTP to %s: %v", input.Email, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send OTP"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "OTP sent to your email", "email": input.Email})
	}
}

// POST /api/users/register/verify
func VerifyRegistration(db *gorm.DB, codes CodeStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input verifyRegistrationInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
			return
		}

		stored, err := codes.Get(c.Request.Context(), "register:"+input.Email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}
		if stored == "" || stored != input.OTP {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired OTP"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}

		user := models.User{
			Name:       input.Name,
			Email:      input.Email,
			Password:   string(hash),
			Role:       models.RoleCustomer,
			IsVerified: true,
		}
		if err := db.Create(&user).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User with this email already exists"})
			return
		}

		_ = codes.Delete(c.Request.Context(), "register:"+input.Email)

		token, err := IssueUserToken(user)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation failed"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"user": user, "token": token})
	}
}

// POST /api/users/login
func Login(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input loginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
			return
		}

		var user models.User
		if err := db.Where("email = ?", input.Email).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		token, err := IssueUserToken(user)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
	}
}

// POST /api/users/forgot-password
func ForgotPassword(db *gorm.DB, codes CodeStore, mailer services.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input requestOTPInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
			return
		}

		var user models.User
		if err := db.Where("email = ?", input.Email).First(&user).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		code := generateOTP()
		if err := codes.Set(c.Request.Context(), "reset:"+input.Email, code, otpTTL); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}

		if err := mailer.SendOTP(input.Email, code, "reset"); err != nil {
			log.Printf("❌ Failed to send reset OTP to %s: %v", input.Email, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send OTP"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "OTP sent to your email"})
	}
}

// POST /api/users/reset-password
func ResetPassword(db *gorm.DB, codes CodeStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input resetPasswordInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
			return
		}

		stored, err := codes.Get(c.Request.Context(), "reset:"+input.Email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}
		if stored == "" || stored != input.OTP {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired OTP"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}

		if err := db.Model(&models.User{}).Where("email = ?", input.Email).
			Update("password", string(hash)).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}

		_ = codes.Delete(c.Request.Context(), "reset:"+input.Email)

		c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
	}
}

const (
	userTokenTTL  = 48 * time.Hour
	guestTokenTTL = 24 * time.Hour
)

// signToken issues an HS256 JWT. The user_id claim carries a numeric id for
// registered users and the guest string id for guest sessions; the middleware
// dispatches on that type.
func signToken(id interface{}, email, role string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": id,
		"role":    role,
		"exp":     time.Now().Add(ttl).Unix(),
	}
	if email != "" {
		claims["email"] = email
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

// IssueUserToken generates a signed JWT for a registered user.
func IssueUserToken(user models.User) (string, error) {
	return signToken(user.ID, user.Email, string(user.Role), userTokenTTL)
}

// IssueGuestToken generates a signed JWT for an anonymous guest session.
func IssueGuestToken(guestID string) (string, error) {
	return signToken(guestID, "", "guest", guestTokenTTL)
}
