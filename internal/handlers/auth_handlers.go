package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"monktrader/internal/common"
	"monktrader/internal/services"
)

type AuthHandlers struct {
	auth services.AuthService
}

func NewAuthHandlers(auth services.AuthService) *AuthHandlers {
	return &AuthHandlers{auth: auth}
}

// GenerateOTP handles POST /generate_otp.
func (h *AuthHandlers) GenerateOTP(c echo.Context) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Email == "" {
		return common.SendClientError(c, "email is required")
	}

	err := h.auth.GenerateOTP(c.Request().Context(), req.Email)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, map[string]any{"success": true, "message": "OTP sent"})
	case errors.Is(err, services.ErrUserBlocked):
		return common.SendError(c, http.StatusForbidden, "Account is blocked")
	case errors.Is(err, services.ErrOTPThrottled):
		return common.SendError(c, http.StatusTooManyRequests, "Please wait before requesting another OTP")
	case errors.Is(err, services.ErrOTPLimitExceeded):
		return common.SendError(c, http.StatusTooManyRequests, "OTP attempt limit reached, try again later")
	default:
		return common.SendServerError(c, "Could not send OTP")
	}
}

// VerifyOTP handles POST /verify_otp.
func (h *AuthHandlers) VerifyOTP(c echo.Context) error {
	var req struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Email == "" || req.OTP == "" {
		return common.SendClientError(c, "email and otp are required")
	}

	result, err := h.auth.VerifyOTP(c.Request().Context(), req.Email, req.OTP)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, map[string]any{
			"success":     true,
			"token":       result.Token,
			"user_id":     result.UserID,
			"is_new_user": result.IsNewUser,
		})
	case errors.Is(err, services.ErrInvalidOTP):
		return common.SendClientError(c, "Invalid or expired OTP")
	case errors.Is(err, services.ErrUserBlocked):
		return common.SendError(c, http.StatusForbidden, "Account is blocked")
	default:
		return common.SendServerError(c, "Login failed")
	}
}

// SocialLogin handles POST /social_login.
func (h *AuthHandlers) SocialLogin(c echo.Context) error {
	var req struct {
		Platform    string  `json:"platform"`
		IDToken     string  `json:"id_token"`
		Email       *string `json:"email"`
		PhoneNumber *string `json:"phone_number"`
		FirstName   *string `json:"first_name"`
		LastName    *string `json:"last_name"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Platform == "" || req.IDToken == "" {
		return common.SendClientError(c, "platform and id_token are required")
	}

	result, err := h.auth.SocialLogin(c.Request().Context(), &services.SocialLoginRequest{
		Platform:    req.Platform,
		IDToken:     req.IDToken,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
	})
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, map[string]any{
			"success":     true,
			"token":       result.Token,
			"user_id":     result.UserID,
			"is_new_user": result.IsNewUser,
		})
	case errors.Is(err, services.ErrUnsupportedPlatform):
		return common.SendClientError(c, "Unsupported login platform")
	case errors.Is(err, services.ErrUserBlocked):
		return common.SendError(c, http.StatusForbidden, "Account is blocked")
	default:
		return common.SendError(c, http.StatusUnauthorized, "Token verification failed")
	}
}
