package models

import "time"

// Promo code kinds as stored in mt_promocodes.promocode_type.
const (
	PromoFlatDiscount    = "flat_discount"
	PromoPercentDiscount = "percent_discount"
	PromoFreeDays        = "free_days"
)

type Promocode struct {
	ID             int64     `json:"id" db:"id"`
	Code           string    `json:"promocode" db:"promocode"`
	Type           string    `json:"promocode_type" db:"promocode_type"`
	Value          float64   `json:"promocode_value" db:"promocode_value"`
	ApplicablePlan *string   `json:"applicable_plan" db:"applicable_plan"`
	Status         string    `json:"status" db:"status"`
	ValidFrom      time.Time `json:"valid_from" db:"valid_from"`
	ValidTo        time.Time `json:"valid_to" db:"valid_to"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
