package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/armkstore/ecommerce-api/auth"
	checkoutControllers "github.com/armkstore/ecommerce-api/controllers/checkout"
	paymentControllers "github.com/armkstore/ecommerce-api/controllers/payment"
	"github.com/armkstore/ecommerce-api/models"
	"github.com/armkstore/ecommerce-api/routes"
	"github.com/armkstore/ecommerce-api/services"
)

func main() {
	log.Println("✅ Starting application...")

	// Load environment variables
	_ = godotenv.Load()

	// Init DB
	db := initDatabase()

	// Auto-migrate all tables
	if err := db.AutoMigrate(
		&models.User{},
		&models.GuestUser{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Checkout{},
		&models.CheckoutItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Subscriber{},
	); err != nil {
		log.Fatalf("❌ AutoMigrate failed: %v", err)
	}

	// Gin setup
	r := gin.Default()

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Setup routes
	routes.SetupRoutes(r, db, buildDeps())

	// Cancel checkouts whose payment never completed
	go checkoutControllers.StartCheckoutReaper(db, time.Hour, 24*time.Hour)

	// Remove expired guest sessions and their carts
	go auth.StartGuestReaper(db, time.Hour)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("🚀 Server running on port %s...", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// initDatabase sets up the GORM DB connection
func initDatabase() *gorm.DB {
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
		if err != nil {
			log.Fatalf("❌ DB connection failed: %v", err)
		}
		return db
	}

	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		host, user, password, dbname, port,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("❌ Failed to connect DB: %v", err)
	}
	return db
}

// buildDeps wires the external collaborators from the environment,
// falling back to dev-mode stand-ins where a service is unconfigured.
func buildDeps() routes.Deps {
	deps := routes.Deps{}

	if mailer, err := services.NewSMTPMailerFromEnv(); err == nil {
		deps.Mailer = mailer
	} else {
		log.Printf("⚠️ SMTP not configured, emails will be logged: %v", err)
		deps.Mailer = services.NewLogMailer()
	}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		deps.Codes = auth.NewRedisCodeStore(addr, os.Getenv("REDIS_PASSWORD"))
	} else {
		log.Println("⚠️ REDIS_ADDR not set, using in-memory OTP store")
		deps.Codes = auth.NewMemoryCodeStore()
	}

	if gateway, err := paymentControllers.NewRazorpayClientFromEnv(); err == nil {
		deps.Razorpay = gateway
	} else {
		log.Printf("⚠️ Razorpay not configured, gateway payments disabled: %v", err)
	}

	return deps
}
