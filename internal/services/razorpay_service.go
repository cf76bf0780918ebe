package services

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RazorpayOrder is the gateway's order object, returned to the client so the
// checkout SDK can open it.
type RazorpayOrder struct {
	ID       string `json:"id"`
	Entity   string `json:"entity"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// RazorpayClient talks to the Razorpay order API and checks callback
// signatures.
type RazorpayClient interface {
	CreateOrder(ctx context.Context, amountPaise int64, receipt string) (*RazorpayOrder, error)
	VerifySignature(orderID, paymentID, signature string) bool
}

type razorpayClient struct {
	keyID     string
	keySecret string
	baseURL   string
	http      *http.Client
}

func NewRazorpayClient(keyID, keySecret string) RazorpayClient {
	return &razorpayClient{
		keyID:     keyID,
		keySecret: keySecret,
		baseURL:   "https://api.razorpay.com/v1",
		http:      &http.Client{Timeout: 10 * time.Second},
	}
}

// CreateOrder submits an auto-capture order for the given amount in paise.
func (c *razorpayClient) CreateOrder(ctx context.Context, amountPaise int64, receipt string) (*RazorpayOrder, error) {
	payload := map[string]any{
		"amount":          amountPaise,
		"currency":        "INR",
		"receipt":         receipt,
		"payment_capture": 1,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("razorpay order request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("razorpay order failed: status %d: %s", resp.StatusCode, respBody)
	}

	order := &RazorpayOrder{}
	if err := json.Unmarshal(respBody, order); err != nil {
		return nil, fmt.Errorf("razorpay order response: %w", err)
	}
	return order, nil
}

// VerifySignature recomputes the HMAC-SHA256 of "order_id|payment_id" with
// the key secret and compares it to the callback signature in constant time.
func (c *razorpayClient) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(c.keySecret))
	fmt.Fprintf(mac, "%s|%s", orderID, paymentID)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
