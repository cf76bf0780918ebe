package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"monktrader/internal/common"
	"monktrader/internal/services"
)

type PromoHandlers struct {
	pricing services.PricingService
}

func NewPromoHandlers(pricing services.PricingService) *PromoHandlers {
	return &PromoHandlers{pricing: pricing}
}

// ApplyPromocode handles POST /apply_promocode. The quote is advisory; the
// authoritative price is recomputed at order creation and again at
// verification.
func (h *PromoHandlers) ApplyPromocode(c echo.Context) error {
	ctx := c.Request().Context()

	if _, ok := common.GetUserIDFromContext(ctx); !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		Promocode  string `json:"promocode"`
		DeviceType string `json:"device_type"`
		PlanID     int64  `json:"plan_id"`
		PlanType   string `json:"plan_type"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Promocode == "" || req.PlanID == 0 || req.PlanType == "" {
		return common.SendClientError(c, "promocode, plan_id and plan_type are required")
	}

	quote, err := h.pricing.Price(ctx, req.PlanID, &req.Promocode, req.PlanType)
	if err != nil {
		return paymentError(c, err)
	}

	if quote.Type == services.QuoteFreeDays {
		return c.JSON(http.StatusOK, map[string]any{
			"success":   true,
			"type":      services.QuoteFreeDays,
			"free_days": quote.FreeDays,
			"message":   fmt.Sprintf("%d days free applied", quote.FreeDays),
		})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success":         true,
		"type":            services.QuoteDiscount,
		"original_price":  quote.Price,
		"discount_amount": quote.DiscountAmount,
		"gst":             quote.GST,
		"final_price":     quote.FinalPrice,
		"message":         fmt.Sprintf("Promocode applied successfully: %s", strings.ToUpper(req.Promocode)),
	})
}
