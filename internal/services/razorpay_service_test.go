package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signPayload(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	client := NewRazorpayClient("key_id", "key_secret")

	valid := signPayload("key_secret", "order_abc", "pay_xyz")
	assert.True(t, client.VerifySignature("order_abc", "pay_xyz", valid))

	assert.False(t, client.VerifySignature("order_abc", "pay_xyz", valid[:len(valid)-1]+"0"))
	assert.False(t, client.VerifySignature("order_other", "pay_xyz", valid))
	assert.False(t, client.VerifySignature("order_abc", "pay_xyz", ""))
}

func TestCreateOrderRequest(t *testing.T) {
	var gotPath, gotUser, gotPass string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, gotPass, _ = r.BasicAuth()
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotBody))

		json.NewEncoder(w).Encode(map[string]any{
			"id":       "order_test1",
			"entity":   "order",
			"amount":   106000,
			"currency": "INR",
			"receipt":  gotBody["receipt"],
			"status":   "created",
		})
	}))
	defer srv.Close()

	client := &razorpayClient{
		keyID:     "key_id",
		keySecret: "key_secret",
		baseURL:   srv.URL,
		http:      &http.Client{Timeout: time.Second},
	}

	order, err := client.CreateOrder(context.Background(), 106000, "rcpt-1")
	require.NoError(t, err)

	assert.Equal(t, "/orders", gotPath)
	assert.Equal(t, "key_id", gotUser)
	assert.Equal(t, "key_secret", gotPass)
	assert.Equal(t, float64(106000), gotBody["amount"])
	assert.Equal(t, float64(1), gotBody["payment_capture"])

	assert.Equal(t, "order_test1", order.ID)
	assert.Equal(t, int64(106000), order.Amount)
	assert.Equal(t, "rcpt-1", order.Receipt)
}

func TestCreateOrderGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"description":"Authentication failed"}}`))
	}))
	defer srv.Close()

	client := &razorpayClient{
		keyID:     "bad",
		keySecret: "bad",
		baseURL:   srv.URL,
		http:      &http.Client{Timeout: time.Second},
	}

	_, err := client.CreateOrder(context.Background(), 1000, "rcpt-1")
	assert.Error(t, err)
}
