package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Mailer delivers transactional mail.
type Mailer interface {
	SendOTP(ctx context.Context, email, code string) error
}

type sparkpostMailer struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func NewSparkpostMailer(apiKey string) Mailer {
	return &sparkpostMailer{
		apiKey:  apiKey,
		baseURL: "https://api.sparkpost.com/api/v1",
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (m *sparkpostMailer) SendOTP(ctx context.Context, email, code string) error {
	html := fmt.Sprintf(`
		<div style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">
		  <p style="font-size: 18px; text-align: center;">Your OTP is:</p>
		  <p style="font-size: 30px; font-weight: bold; text-align: center; letter-spacing: 4px;">%s</p>
		  <p style="font-size: 14px;">Please use the code above to complete your verification. It is valid for the next <strong>5 minutes</strong>.</p>
		  <p style="font-size: 14px;">If you did not request this code, please ignore this email or contact us at support@monktrader.ai.</p>
		</div>`, code)

	payload := map[string]any{
		"content": map[string]any{
			"from": map[string]string{
				"email": "txn@notifications.monktrader.in",
				"name":  "MonkTrader",
			},
			"subject": fmt.Sprintf("MonkTrader OTP: %s", code),
			"html":    html,
		},
		"recipients": []map[string]string{
			{"address": email},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/transmissions", bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.http.Do(req)
	if err != nil {
		return fmt.Errorf("sparkpost request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sparkpost transmission failed: status %d", resp.StatusCode)
	}
	return nil
}
