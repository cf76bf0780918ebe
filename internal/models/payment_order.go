package models

import "time"

// Payment order lifecycle. An order is written before the user pays and is
// never deleted; it moves to paid exactly once after verification.
const (
	OrderStatusCreated = "created"
	OrderStatusPaid    = "paid"
)

type PaymentOrder struct {
	ID              int64     `json:"id" db:"id"`
	UserID          int64     `json:"user_id" db:"user_id"`
	RazorpayOrderID string    `json:"razorpay_order_id" db:"razorpay_order_id"`
	PlanID          int64     `json:"plan_id" db:"plan_id"`
	Amount          float64   `json:"amount" db:"amount"`
	Promocode       *string   `json:"promocode" db:"promocode"`
	Status          string    `json:"status" db:"status"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}
