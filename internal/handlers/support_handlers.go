package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"monktrader/internal/common"
	"monktrader/internal/services"
)

type SupportHandlers struct {
	support services.SupportService
}

func NewSupportHandlers(support services.SupportService) *SupportHandlers {
	return &SupportHandlers{support: support}
}

// RaiseTicket handles POST /raise_support_ticket.
func (h *SupportHandlers) RaiseTicket(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		Subject string `json:"subject"`
		Message string `json:"message"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Subject == "" || req.Message == "" {
		return common.SendClientError(c, "subject and message are required")
	}

	id, err := h.support.RaiseTicket(ctx, userID, req.Subject, req.Message)
	if err != nil {
		return common.SendServerError(c, "Could not raise ticket")
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "ticket_id": id})
}
