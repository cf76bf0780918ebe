package models

import "time"

// Transaction provider tags stored in mt_transactions.payment_type.
const (
	PaymentTypeRazorpay = "Razorpay"
	PaymentTypeApple    = "Apple"
)

// Transaction is the immutable audit record of a completed payment. Exactly
// one row is written per successful verification.
type Transaction struct {
	ID                int64     `json:"id" db:"id"`
	UserID            int64     `json:"user_id" db:"user_id"`
	PaymentID         string    `json:"payment_id" db:"payment_id"`
	RazorpayOrderID   *string   `json:"razorpay_order_id" db:"razorpay_order_id"`
	RazorpaySignature *string   `json:"razorpay_signature" db:"razorpay_signature"`
	Amount            float64   `json:"amount" db:"amount"`
	Currency          string    `json:"currency" db:"currency"`
	Email             *string   `json:"email" db:"email"`
	Contact           *string   `json:"contact" db:"contact"`
	PaymentStatus     string    `json:"payment_status" db:"payment_status"`
	PaymentType       string    `json:"payment_type" db:"payment_type"`
	Receipt           *string   `json:"receipt" db:"receipt"`
	Promocode         *string   `json:"promocode" db:"promocode"`
	Notes             string    `json:"notes" db:"notes"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
}
