package services

import (
	"context"
	"strings"

	"monktrader/internal/models"
	"monktrader/internal/repositories"
)

const stockSearchLimit = 25

type StockService interface {
	Search(ctx context.Context, query string) ([]*models.Stock, error)
	GetBySymbol(ctx context.Context, symbol string) (*models.StockDetail, error)
}

type stockService struct {
	stocks repositories.StockRepository
}

func NewStockService(stocks repositories.StockRepository) StockService {
	return &stockService{stocks: stocks}
}

func (s *stockService) Search(ctx context.Context, query string) ([]*models.Stock, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	return s.stocks.Search(ctx, query, stockSearchLimit)
}

func (s *stockService) GetBySymbol(ctx context.Context, symbol string) (*models.StockDetail, error) {
	return s.stocks.GetBySymbol(ctx, strings.ToUpper(strings.TrimSpace(symbol)))
}
