package handlers

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"monktrader/internal/common"
	"monktrader/internal/services"
)

type StockHandlers struct {
	stocks services.StockService
}

func NewStockHandlers(stocks services.StockService) *StockHandlers {
	return &StockHandlers{stocks: stocks}
}

// SearchStock handles GET /search_stock.
func (h *StockHandlers) SearchStock(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return common.SendClientError(c, "q is required")
	}

	stocks, err := h.stocks.Search(c.Request().Context(), query)
	if err != nil {
		return common.SendServerError(c, "Search failed")
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "stocks": stocks})
}

// GetStockDetails handles GET /get_stock_details.
func (h *StockHandlers) GetStockDetails(c echo.Context) error {
	symbol := c.QueryParam("symbol")
	if symbol == "" {
		return common.SendClientError(c, "symbol is required")
	}

	detail, err := h.stocks.GetBySymbol(c.Request().Context(), symbol)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Stock")
		}
		return common.SendServerError(c, "Could not load stock details")
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "stock": detail})
}
