package models

import "time"

// Plan is a row of mt_subscription_master. Prices already referenced by a
// payment order must not be edited in place; orders snapshot the charged
// amount at creation time.
type Plan struct {
	ID              int64     `json:"id" db:"id"`
	PlanName        string    `json:"plan_name" db:"plan_name"`
	DurationDays    int       `json:"duration_days" db:"duration_days"`
	OriginalPrice   float64   `json:"original_price" db:"original_price"`
	DiscountPercent float64   `json:"discount_percent" db:"discount_percent"`
	PriceBeforeTax  float64   `json:"price_before_tax" db:"price_before_tax"`
	GSTPercent      float64   `json:"gst_percent" db:"gst_percent"`
	GSTAmount       float64   `json:"gst_amount" db:"gst_amount"`
	FinalPrice      float64   `json:"final_price" db:"final_price"`
	ProductID       *string   `json:"product_id" db:"product_id"`
	DeviceType      string    `json:"device_type" db:"device_type"`
	Features        *string   `json:"features" db:"features"`
	IsTrial         bool      `json:"is_trial" db:"is_trial"`
	IsActive        bool      `json:"is_active" db:"is_active"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}
