package paymentControllers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(baseURL string) *RazorpayClient {
	return &RazorpayClient{
		BaseURL:   baseURL,
		KeyID:     "rzp_test_key",
		KeySecret: "rzp_test_secret",
		client:    &http.Client{},
	}
}

func TestCreateOrder(t *testing.T) {
	var gotPayload map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "rzp_test_key", user)
		assert.Equal(t, "rzp_test_secret", pass)

		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))

		json.NewEncoder(w).Encode(RazorpayOrder{
			ID: "order_abc", Amount: 100000, Currency: "INR", Status: "created",
		})
	}))
	defer srv.Close()

	order, err := testClient(srv.URL).CreateOrder(100000, "INR", "receipt-1")
	require.NoError(t, err)
	assert.Equal(t, "order_abc", order.ID)
	assert.Equal(t, int64(100000), order.Amount)

	assert.Equal(t, float64(100000), gotPayload["amount"])
	assert.Equal(t, "INR", gotPayload["currency"])
	assert.Equal(t, float64(1), gotPayload["payment_capture"], "orders are opened with auto-capture")
}

func TestCreateOrderAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"code": "BAD_REQUEST_ERROR", "description": "amount too small"},
		})
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).CreateOrder(50, "INR", "receipt-2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "amount too small")
}

func TestCreateOrderEmptyOrderID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(RazorpayOrder{})
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).CreateOrder(100000, "INR", "receipt-3")
	assert.Error(t, err)
}

func TestVerifyPaymentSignature(t *testing.T) {
	client := testClient("")

	sign := func(orderID, paymentID string) string {
		mac := hmac.New(sha256.New, []byte(client.KeySecret))
		mac.Write([]byte(orderID + "|" + paymentID))
		return hex.EncodeToString(mac.Sum(nil))
	}

	assert.True(t, client.VerifyPaymentSignature("order_1", "pay_1", sign("order_1", "pay_1")))
	assert.False(t, client.VerifyPaymentSignature("order_1", "pay_1", sign("order_1", "pay_2")))
	assert.False(t, client.VerifyPaymentSignature("order_1", "pay_1", "not-a-signature"))
	assert.False(t, client.VerifyPaymentSignature("", "pay_1", sign("", "pay_1")))
	assert.False(t, client.VerifyPaymentSignature("order_1", "pay_1", ""))
}
