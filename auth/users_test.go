package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/armkstore/ecommerce-api/models"
	"github.com/armkstore/ecommerce-api/services"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.GuestUser{}, &models.Cart{}, &models.CartItem{},
	))
	return db
}

func setupRouter(db *gorm.DB, codes CodeStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	mailer := services.NewLogMailer()
	r := gin.New()
	r.POST("/api/users/register/request-otp", RequestRegistrationOTP(db, codes, mailer))
	r.POST("/api/users/register/verify", VerifyRegistration(db, codes))
	r.POST("/api/users/login", Login(db))
	r.POST("/api/users/forgot-password", ForgotPassword(db, codes, mailer))
	r.POST("/api/users/reset-password", ResetPassword(db, codes))
	r.POST("/api/auth/guest", CreateGuestUser(db))
	return r
}

func doJSON(t *testing.T, r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegistrationFlow(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := setupTestDB(t)
	codes := NewMemoryCodeStore()
	r := setupRouter(db, codes)

	w := doJSON(t, r, "/api/users/register/request-otp", gin.H{"email": "asha@example.com"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	code, err := codes.Get(context.Background(), "register:asha@example.com")
	require.NoError(t, err)
	require.Len(t, code, 6)

	w = doJSON(t, r, "/api/users/register/verify", gin.H{
		"email": "asha@example.com", "otp": code, "name": "Asha", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		User  models.User `json:"user"`
		Token string      `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, models.RoleCustomer, resp.User.Role)
	assert.True(t, resp.User.IsVerified)

	// The code is single-use
	stored, err := codes.Get(context.Background(), "register:asha@example.com")
	require.NoError(t, err)
	assert.Empty(t, stored)

	var saved models.User
	require.NoError(t, db.Where("email = ?", "asha@example.com").First(&saved).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.Password), []byte("secret123")))
}

func TestRegistrationRejectsWrongOTP(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := setupTestDB(t)
	codes := NewMemoryCodeStore()
	r := setupRouter(db, codes)

	require.Equal(t, http.StatusOK,
		doJSON(t, r, "/api/users/register/request-otp", gin.H{"email": "asha@example.com"}).Code)

	w := doJSON(t, r, "/api/users/register/verify", gin.H{
		"email": "asha@example.com", "otp": "000000", "name": "Asha", "password": "secret123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.Zero(t, count)
}

func TestRequestOTPForExistingEmail(t *testing.T) {
	db := setupTestDB(t)
	codes := NewMemoryCodeStore()
	r := setupRouter(db, codes)

	require.NoError(t, db.Create(&models.User{
		Name: "Asha", Email: "asha@example.com", Password: "x", IsVerified: true,
	}).Error)

	w := doJSON(t, r, "/api/users/register/request-otp", gin.H{"email": "asha@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := setupTestDB(t)
	r := setupRouter(db, NewMemoryCodeStore())

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.User{
		Name: "Asha", Email: "asha@example.com", Password: string(hash),
		Role: models.RoleCustomer, IsVerified: true,
	}).Error)

	w := doJSON(t, r, "/api/users/login", gin.H{"email": "asha@example.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)

	w = doJSON(t, r, "/api/users/login", gin.H{"email": "asha@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, "/api/users/login", gin.H{"email": "nobody@example.com", "password": "secret123"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPasswordResetFlow(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := setupTestDB(t)
	codes := NewMemoryCodeStore()
	r := setupRouter(db, codes)

	hash, err := bcrypt.GenerateFromPassword([]byte("oldpass1"), bcrypt.DefaultCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.User{
		Name: "Asha", Email: "asha@example.com", Password: string(hash),
		Role: models.RoleCustomer, IsVerified: true,
	}).Error)

	w := doJSON(t, r, "/api/users/forgot-password", gin.H{"email": "asha@example.com"})
	require.Equal(t, http.StatusOK, w.Code)

	code, err := codes.Get(context.Background(), "reset:asha@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, code)

	w = doJSON(t, r, "/api/users/reset-password", gin.H{
		"email": "asha@example.com", "otp": code, "password": "newpass1",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, "/api/users/login", gin.H{"email": "asha@example.com", "password": "newpass1"})
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, r, "/api/users/login", gin.H{"email": "asha@example.com", "password": "oldpass1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db, NewMemoryCodeStore())

	w := doJSON(t, r, "/api/users/forgot-password", gin.H{"email": "nobody@example.com"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateGuestUser(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := setupTestDB(t)
	r := setupRouter(db, NewMemoryCodeStore())

	w := doJSON(t, r, "/api/auth/guest", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		GuestID string `json:"guest_id"`
		Token   string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp.GuestID, "guest_"))
	assert.NotEmpty(t, resp.Token)

	var guest models.GuestUser
	require.NoError(t, db.First(&guest, "id = ?", resp.GuestID).Error)
	assert.True(t, guest.ExpiresAt.After(time.Now()))

	// Every session gets a distinct id
	w = doJSON(t, r, "/api/auth/guest", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var second struct {
		GuestID string `json:"guest_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
	assert.NotEqual(t, resp.GuestID, second.GuestID)
}

func TestReapExpiredGuests(t *testing.T) {
	db := setupTestDB(t)

	expiredID := "guest_expired"
	liveID := "guest_live"
	require.NoError(t, db.Create(&models.GuestUser{
		ID: expiredID, ExpiresAt: time.Now().Add(-time.Hour),
	}).Error)
	require.NoError(t, db.Create(&models.GuestUser{
		ID: liveID, ExpiresAt: time.Now().Add(time.Hour),
	}).Error)

	// Both guests own carts with items
	for _, id := range []string{expiredID, liveID} {
		guestID := id
		require.NoError(t, db.Create(&models.Cart{
			GuestID: &guestID,
			Items: []models.CartItem{
				{ProductID: 1, Name: "Silver Necklace", Price: 500, Quantity: 1, AddedAt: time.Now()},
			},
			TotalPrice: 500,
		}).Error)
	}

	count, err := ReapExpiredGuests(db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	var guestCount int64
	db.Model(&models.GuestUser{}).Where("id = ?", expiredID).Count(&guestCount)
	assert.Zero(t, guestCount)
	db.Model(&models.Cart{}).Where("guest_id = ?", expiredID).Count(&guestCount)
	assert.Zero(t, guestCount, "the expired guest's cart is removed with the session")

	db.Model(&models.GuestUser{}).Where("id = ?", liveID).Count(&guestCount)
	assert.Equal(t, int64(1), guestCount)
	var liveCart models.Cart
	require.NoError(t, db.Preload("Items").Where("guest_id = ?", liveID).First(&liveCart).Error)
	assert.Len(t, liveCart.Items, 1)

	// Nothing left to reap on the next sweep
	count, err = ReapExpiredGuests(db)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMemoryCodeStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryCodeStore()

	require.NoError(t, store.Set(ctx, "register:a@b.c", "123456", time.Minute))
	code, err := store.Get(ctx, "register:a@b.c")
	require.NoError(t, err)
	assert.Equal(t, "123456", code)

	// Unknown keys read as empty, not as an error
	code, err = store.Get(ctx, "register:missing")
	require.NoError(t, err)
	assert.Empty(t, code)

	require.NoError(t, store.Delete(ctx, "register:a@b.c"))
	code, _ = store.Get(ctx, "register:a@b.c")
	assert.Empty(t, code)

	// Expired entries read as empty
	require.NoError(t, store.Set(ctx, "register:x@y.z", "654321", -time.Second))
	code, err = store.Get(ctx, "register:x@y.z")
	require.NoError(t, err)
	assert.Empty(t, code)
}

func TestGenerateOTP(t *testing.T) {
	for i := 0; i < 50; i++ {
		code := generateOTP()
		require.Len(t, code, 6)
		assert.GreaterOrEqual(t, code[0], byte('1'))
	}
}
