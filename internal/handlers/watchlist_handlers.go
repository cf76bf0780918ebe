package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"monktrader/internal/common"
	"monktrader/internal/services"
)

type WatchlistHandlers struct {
	watchlists services.WatchlistService
}

func NewWatchlistHandlers(watchlists services.WatchlistService) *WatchlistHandlers {
	return &WatchlistHandlers{watchlists: watchlists}
}

// CreateWatchlist handles POST /create_watchlist.
func (h *WatchlistHandlers) CreateWatchlist(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Name == "" {
		return common.SendClientError(c, "name is required")
	}

	wl, err := h.watchlists.Create(ctx, userID, req.Name)
	if err != nil {
		return common.SendServerError(c, "Could not create watchlist")
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "watchlist": wl})
}

// GetWatchlists handles GET /get_watchlists.
func (h *WatchlistHandlers) GetWatchlists(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	lists, err := h.watchlists.List(ctx, userID)
	if err != nil {
		return common.SendServerError(c, "Could not load watchlists")
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "watchlists": lists})
}

// RenameWatchlist handles POST /rename_watchlist.
func (h *WatchlistHandlers) RenameWatchlist(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		WatchlistID int64  `json:"watchlist_id"`
		Name        string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.WatchlistID == 0 || req.Name == "" {
		return common.SendClientError(c, "watchlist_id and name are required")
	}

	if err := h.watchlists.Rename(ctx, userID, req.WatchlistID, req.Name); err != nil {
		if errors.Is(err, services.ErrWatchlistNotFound) {
			return common.SendNotFoundError(c, "Watchlist")
		}
		return common.SendServerError(c, "Could not rename watchlist")
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

// DeleteWatchlist handles POST /delete_watchlist.
func (h *WatchlistHandlers) DeleteWatchlist(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		WatchlistID int64 `json:"watchlist_id"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.WatchlistID == 0 {
		return common.SendClientError(c, "watchlist_id is required")
	}

	if err := h.watchlists.Delete(ctx, userID, req.WatchlistID); err != nil {
		if errors.Is(err, services.ErrWatchlistNotFound) {
			return common.SendNotFoundError(c, "Watchlist")
		}
		return common.SendServerError(c, "Could not delete watchlist")
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

// AddStockToWatchlist handles POST /add_stock_to_watchlist.
func (h *WatchlistHandlers) AddStockToWatchlist(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		WatchlistID int64  `json:"watchlist_id"`
		Symbol      string `json:"symbol"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.WatchlistID == 0 || req.Symbol == "" {
		return common.SendClientError(c, "watchlist_id and symbol are required")
	}

	if err := h.watchlists.AddStock(ctx, userID, req.WatchlistID, req.Symbol); err != nil {
		return common.SendServerError(c, "Could not add stock")
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

// RemoveStockFromWatchlist handles POST /remove_stock_from_watchlist.
func (h *WatchlistHandlers) RemoveStockFromWatchlist(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		WatchlistID int64  `json:"watchlist_id"`
		Symbol      string `json:"symbol"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.WatchlistID == 0 || req.Symbol == "" {
		return common.SendClientError(c, "watchlist_id and symbol are required")
	}

	if err := h.watchlists.RemoveStock(ctx, userID, req.WatchlistID, req.Symbol); err != nil {
		if errors.Is(err, services.ErrWatchlistNotFound) {
			return common.SendNotFoundError(c, "Watchlist entry")
		}
		return common.SendServerError(c, "Could not remove stock")
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

// GetStocksInWatchlist handles GET /get_stocks_in_watchlist.
func (h *WatchlistHandlers) GetStocksInWatchlist(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	watchlistID, err := strconv.ParseInt(c.QueryParam("watchlist_id"), 10, 64)
	if err != nil {
		return common.SendClientError(c, "Invalid watchlist_id")
	}

	stocks, err := h.watchlists.ListStocks(ctx, userID, watchlistID)
	if err != nil {
		return common.SendServerError(c, "Could not load watchlist stocks")
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "stocks": stocks})
}
