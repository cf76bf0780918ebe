package repositories

import (
	"context"

	"monktrader/internal/models"
)

type WatchlistRepository interface {
	Create(ctx context.Context, userID int64, name string) (*models.Watchlist, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.Watchlist, error)
	Rename(ctx context.Context, userID, watchlistID int64, name string) (int64, error)
	Delete(ctx context.Context, userID, watchlistID int64) (int64, error)
	AddStock(ctx context.Context, userID, watchlistID int64, symbol string) error
	RemoveStock(ctx context.Context, userID, watchlistID int64, symbol string) (int64, error)
	ListStocks(ctx context.Context, userID, watchlistID int64) ([]*models.Stock, error)
}

type watchlistRepo struct {
	db Database
}

func NewWatchlistRepo(db Database) WatchlistRepository {
	return &watchlistRepo{db: db}
}

func (r *watchlistRepo) Create(ctx context.Context, userID int64, name string) (*models.Watchlist, error) {
	wl := &models.Watchlist{UserID: userID, Name: name}
	query := `
		INSERT INTO mt_watchlists (user_id, name, created_at)
		VALUES ($1, $2, NOW())
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query, userID, name).Scan(&wl.ID, &wl.CreatedAt)
	if err != nil {
		return nil, err
	}
	return wl, nil
}

func (r *watchlistRepo) ListByUser(ctx context.Context, userID int64) ([]*models.Watchlist, error) {
	query := `
		SELECT id, user_id, name, created_at
		FROM mt_watchlists
		WHERE user_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lists []*models.Watchlist
	for rows.Next() {
		wl := &models.Watchlist{}
		if err := rows.Scan(&wl.ID, &wl.UserID, &wl.Name, &wl.CreatedAt); err != nil {
			return nil, err
		}
		lists = append(lists, wl)
	}
	return lists, rows.Err()
}

func (r *watchlistRepo) Rename(ctx context.Context, userID, watchlistID int64, name string) (int64, error) {
	tag, err := r.db.Exec(ctx, `UPDATE mt_watchlists SET name = $1 WHERE id = $2 AND user_id = $3`,
		name, watchlistID, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *watchlistRepo) Delete(ctx context.Context, userID, watchlistID int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM mt_watchlists WHERE id = $1 AND user_id = $2`,
		watchlistID, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *watchlistRepo) AddStock(ctx context.Context, userID, watchlistID int64, symbol string) error {
	query := `
		INSERT INTO mt_watchlist_stocks (watchlist_id, symbol, added_at)
		SELECT id, $3, NOW() FROM mt_watchlists WHERE id = $1 AND user_id = $2
		ON CONFLICT (watchlist_id, symbol) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query, watchlistID, userID, symbol)
	return err
}

func (r *watchlistRepo) RemoveStock(ctx context.Context, userID, watchlistID int64, symbol string) (int64, error) {
	query := `
		DELETE FROM mt_watchlist_stocks
		WHERE symbol = $1
		  AND watchlist_id IN (SELECT id FROM mt_watchlists WHERE id = $2 AND user_id = $3)
	`
	tag, err := r.db.Exec(ctx, query, symbol, watchlistID, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *watchlistRepo) ListStocks(ctx context.Context, userID, watchlistID int64) ([]*models.Stock, error) {
	query := `
		SELECT s.id, s.symbol, s.company_name, s.sector, s.exchange
		FROM mt_watchlist_stocks ws
		JOIN mt_watchlists w ON w.id = ws.watchlist_id
		JOIN mt_stocks s ON s.symbol = ws.symbol
		WHERE w.id = $1 AND w.user_id = $2
		ORDER BY ws.added_at
	`
	rows, err := r.db.Query(ctx, query, watchlistID, userID)
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
