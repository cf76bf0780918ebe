package models

import "time"

// Subscription is a user's access window. Invariant: at most one row per user
// has is_active = true at any time; activating a new subscription deactivates
// the previous ones in the same unit of work.
type Subscription struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	PlanID    int64     `json:"plan_id" db:"plan_id"`
	PlanType  string    `json:"plan_type" db:"plan_type"`
	StartDate time.Time `json:"start_date" db:"start_date"`
	EndDate   time.Time `json:"end_date" db:"end_date"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	PaymentID *string   `json:"payment_id" db:"payment_id"`
}
