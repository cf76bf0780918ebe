package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"monktrader/internal/common"
	"monktrader/internal/services"
)

type ProfileHandlers struct {
	users services.UserService
}

func NewProfileHandlers(users services.UserService) *ProfileHandlers {
	return &ProfileHandlers{users: users}
}

// GetUserProfile handles GET /get_user_profile.
func (h *ProfileHandlers) GetUserProfile(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	profile, err := h.users.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return common.SendNotFoundError(c, "User")
		}
		return common.SendServerError(c, "Could not load profile")
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "profile": profile})
}

// UpdateUserProfile handles POST /update_user_profile.
func (h *ProfileHandlers) UpdateUserProfile(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		FirstName   *string `json:"first_name"`
		LastName    *string `json:"last_name"`
		PhoneNumber *string `json:"phone_number"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.FirstName == nil && req.LastName == nil && req.PhoneNumber == nil {
		return common.SendClientError(c, "nothing to update")
	}

	if err := h.users.UpdateProfile(ctx, userID, req.FirstName, req.LastName, req.PhoneNumber); err != nil {
		return common.SendServerError(c, "Could not update profile")
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}
