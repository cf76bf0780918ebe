package repositories

import (
	"context"

	"monktrader/internal/models"
)

type StockRepository interface {
	Search(ctx context.Context, query string, limit int) ([]*models.Stock, error)
	GetBySymbol(ctx context.Context, symbol string) (*models.StockDetail, error)
}

type stockRepo struct {
	db Database
}

func NewStockRepo(db Database) StockRepository {
	return &stockRepo{db: db}
}

func (r *stockRepo) Search(ctx context.Context, query string, limit int) ([]*models.Stock, error) {
	sql := `
		SELECT id, symbol, company_name, sector, exchange
		FROM mt_stocks
		WHERE symbol ILIKE '%' || $1 || '%' OR company_name ILIKE '%' || $1 || '%'
		ORDER BY symbol
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, sql, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stocks []*models.Stock
	for rows.Next() {
		s := &models.Stock{}
		if err := rows.Scan(&s.ID, &s.Symbol, &s.CompanyName, &s.Sector, &s.Exchange); err != nil {
			return nil, err
		}
		stocks = append(stocks, s)
	}
	return stocks, rows.Err()
}

func (r *stockRepo) GetBySymbol(ctx context.Context, symbol string) (*models.StockDetail, error) {
	detail := &models.StockDetail{}
	query := `
		SELECT id, symbol, company_name, sector, exchange,
		       last_price, day_change_pct, market_cap, pe_ratio,
		       fifty_two_wk_high, fifty_two_wk_low
		FROM mt_stocks
		WHERE symbol = $1
	`
	err := r.db.QueryRow(ctx, query, symbol).Scan(&detail.ID, &detail.Symbol, &detail.CompanyName,
		&detail.Sector, &detail.Exchange, &detail.LastPrice, &detail.DayChangePct,
		&detail.MarketCap, &detail.PERatio, &detail.FiftyTwoWkHigh, &detail.FiftyTwoWkLow)
	if err != nil {
		return nil, err
	}
	return detail, nil
}
