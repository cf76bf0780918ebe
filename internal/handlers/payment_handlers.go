package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"monktrader/internal/common"
	"monktrader/internal/repositories"
	"monktrader/internal/services"
)

// PaymentHandlers covers order creation and both payment verification flows.
type PaymentHandlers struct {
	settlement services.SettlementService
}

func NewPaymentHandlers(settlement services.SettlementService) *PaymentHandlers {
	return &PaymentHandlers{settlement: settlement}
}

// paymentError maps the settlement error taxonomy onto HTTP statuses:
// user-correctable promo problems and fraud-shaped mismatches are 400,
// missing plans 404, gateway trouble 502, everything else a generic 500.
func paymentError(c echo.Context, err error) error {
	var promoErr *services.PromoError
	switch {
	case errors.As(err, &promoErr):
		return common.SendClientError(c, promoErr.Reason)
	case errors.Is(err, services.ErrPlanNotFound):
		return common.SendNotFoundError(c, "Plan")
	case errors.Is(err, services.ErrOrderMismatch):
		return common.SendClientError(c, "Amount mismatch or order not found")
	case errors.Is(err, services.ErrInvalidSignature):
		return common.SendClientError(c, "Invalid payment signature")
	case errors.Is(err, repositories.ErrAlreadySettled):
		return common.SendClientError(c, "Payment already processed")
	case errors.Is(err, services.ErrGatewayUnavailable):
		return common.SendError(c, http.StatusBadGateway, "Payment provider unavailable, please try again")
	default:
		return common.SendServerError(c, "Verification failed")
	}
}

// CreateOrder handles POST /create_order.
func (h *PaymentHandlers) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		PlanID    int64   `json:"plan_id"`
		Promocode *string `json:"promocode"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.PlanID == 0 {
		return common.SendClientError(c, "plan_id is required")
	}

	order, err := h.settlement.CreateOrder(ctx, userID, req.PlanID, req.Promocode)
	if err != nil {
		return paymentError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{"order": order})
}

// VerifyRazorpayPayment handles POST /verify_payment.
func (h *PaymentHandlers) VerifyRazorpayPayment(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		PaymentID         string  `json:"payment_id"`
		RazorpayOrderID   string  `json:"razorpay_order_id"`
		RazorpaySignature string  `json:"razorpay_signature"`
		Amount            float64 `json:"amount"`
		Email             *string `json:"email"`
		Contact           *string `json:"contact"`
		Promocode         *string `json:"promocode"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.PaymentID == "" || req.RazorpayOrderID == "" || req.RazorpaySignature == "" {
		return common.SendClientError(c, "payment_id, razorpay_order_id and razorpay_signature are required")
	}

	amount, err := h.settlement.VerifyRazorpayPayment(ctx, userID, &services.RazorpayVerification{
		PaymentID:         req.PaymentID,
		RazorpayOrderID:   req.RazorpayOrderID,
		RazorpaySignature: req.RazorpaySignature,
		Amount:            req.Amount,
		Email:             req.Email,
		Contact:           req.Contact,
		Promocode:         req.Promocode,
	})
	if err != nil {
		return paymentError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{"success": true, "amount": amount})
}

// VerifyApplePayment handles POST /verify_apple_payment.
func (h *PaymentHandlers) VerifyApplePayment(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		PaymentID string  `json:"payment_id"`
		Receipt   string  `json:"receipt"`
		Amount    float64 `json:"amount"`
		PlanID    int64   `json:"plan_id"`
		Email     *string `json:"email"`
		Contact   *string `json:"contact"`
		Promocode *string `json:"promocode"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.PaymentID == "" || req.Receipt == "" || req.PlanID == 0 {
		return common.SendClientError(c, "payment_id, receipt and plan_id are required")
	}

	amount, err := h.settlement.VerifyApplePayment(ctx, userID, &services.AppleVerification{
		PaymentID: req.PaymentID,
		Receipt:   req.Receipt,
		Amount:    req.Amount,
		PlanID:    req.PlanID,
		Email:     req.Email,
		Contact:   req.Contact,
		Promocode: req.Promocode,
	})
	if err != nil {
		return paymentError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{"success": true, "amount": amount})
}
