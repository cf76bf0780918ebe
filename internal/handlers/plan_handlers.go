package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"monktrader/internal/common"
	"monktrader/internal/services"
)

type PlanHandlers struct {
	plans services.PlanService
}

func NewPlanHandlers(plans services.PlanService) *PlanHandlers {
	return &PlanHandlers{plans: plans}
}

// GetSubscriptionPlans handles GET /get_subscription_plans.
func (h *PlanHandlers) GetSubscriptionPlans(c echo.Context) error {
	deviceType := c.QueryParam("device_type")
	if deviceType == "" {
		return common.SendClientError(c, "device_type is required")
	}

	plans, err := h.plans.ListPlans(c.Request().Context(), deviceType)
	if err != nil {
		return common.SendServerError(c, "Could not load plans")
	}

	return c.JSON(http.StatusOK, map[string]any{"success": true, "plans": plans})
}
