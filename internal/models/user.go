package models

import "time"

type User struct {
	ID             int64      `json:"id" db:"id"`
	Email          *string    `json:"email" db:"email"`
	PhoneNumber    *string    `json:"phone_number" db:"phone_number"`
	FirstName      *string    `json:"firstname" db:"firstname"`
	LastName       *string    `json:"lastname" db:"lastname"`
	Provider       *string    `json:"provider" db:"provider"`
	ProviderUserID *string    `json:"provider_user_id" db:"provider_user_id"`
	IsBlocked      bool       `json:"is_blocked" db:"is_blocked"`
	JWTIssuedAt    *time.Time `json:"jwt_iat" db:"jwt_iat"`
	JWTExpiresAt   *time.Time `json:"jwt_exp" db:"jwt_exp"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}
