package services

import (
	"errors"
	"fmt"
)

// Sentinel errors the handlers map onto HTTP statuses. Pricing and settlement
// keep user-correctable promo failures (PromoError), fraud-shaped integrity
// failures and dependency failures distinguishable.
var (
	ErrPlanNotFound        = errors.New("plan not found")
	ErrTaxConfigMissing    = errors.New("gst configuration missing")
	ErrGatewayUnavailable  = errors.New("payment gateway unavailable")
	ErrOrderMismatch       = errors.New("amount mismatch or order not found")
	ErrInvalidSignature    = errors.New("invalid payment signature")
	ErrUserBlocked         = errors.New("user account is blocked")
	ErrOTPThrottled        = errors.New("please wait before requesting another otp")
	ErrOTPLimitExceeded    = errors.New("otp request limit exceeded")
	ErrInvalidOTP          = errors.New("invalid or expired otp")
	ErrUnsupportedPlatform = errors.New("unsupported platform")
)

// PromoError is a user-correctable promo validation failure: unknown, expired
// or mismatched codes. The message is safe to show to the client.
type PromoError struct {
	Reason string
}

func (e *PromoError) Error() string {
	return e.Reason
}

func promoErrorf(format string, args ...any) *PromoError {
	return &PromoError{Reason: fmt.Sprintf(format, args...)}
}
