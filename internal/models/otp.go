package models

import "time"

type OTP struct {
	ID           int64     `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Code         string    `json:"otp" db:"otp"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	ExpiresAt    time.Time `json:"expires_at" db:"expires_at"`
	AttemptCount int       `json:"attempt_count" db:"attempt_count"`
	LastSentAt   time.Time `json:"last_sent_at" db:"last_sent_at"`
	IsValid      bool      `json:"is_valid" db:"is_valid"`
}
