package services

import (
	"context"
	"errors"

	"monktrader/internal/models"
	"monktrader/internal/repositories"
)

var ErrWatchlistNotFound = errors.New("watchlist not found")

type WatchlistService interface {
	Create(ctx context.Context, userID int64, name string) (*models.Watchlist, error)
	List(ctx context.Context, userID int64) ([]*models.Watchlist, error)
	Rename(ctx context.Context, userID, watchlistID int64, name string) error
	Delete(ctx context.Context, userID, watchlistID int64) error
	AddStock(ctx context.Context, userID, watchlistID int64, symbol string) error
	RemoveStock(ctx context.Context, userID, watchlistID int64, symbol string) error
	ListStocks(ctx context.Context, userID, watchlistID int64) ([]*models.Stock, error)
}

type watchlistService struct {
	watchlists repositories.WatchlistRepository
}

func NewWatchlistService(watchlists repositories.WatchlistRepository) WatchlistService {
	return &watchlistService{watchlists: watchlists}
}

func (s *watchlistService) Create(ctx context.Context, userID int64, name string) (*models.Watchlist, error) {
	return s.watchlists.Create(ctx, userID, name)
}

func (s *watchlistService) List(ctx context.Context, userID int64) ([]*models.Watchlist, error) {
	return s.watchlists.ListByUser(ctx, userID)
}

func (s *watchlistService) Rename(ctx context.Context, userID, watchlistID int64, name string) error {
	affected, err := s.watchlists.Rename(ctx, userID, watchlistID, name)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrWatchlistNotFound
	}
	return nil
}

func (s *watchlistService) Delete(ctx context.Context, userID, watchlistID int64) error {
	affected, err := s.watchlists.Delete(ctx, userID, watchlistID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrWatchlistNotFound
	}
	return nil
}

func (s *watchlistService) AddStock(ctx context.Context, userID, watchlistID int64, symbol string) error {
	return s.watchlists.AddStock(ctx, userID, watchlistID, symbol)
}

func (s *watchlistService) RemoveStock(ctx context.Context, userID, watchlistID int64, symbol string) error {
	affected, err := s.watchlists.RemoveStock(ctx, userID, watchlistID, symbol)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrWatchlistNotFound
	}
	return nil
}

func (s *watchlistService) ListStocks(ctx context.Context, userID, watchlistID int64) ([]*models.Stock, error) {
	return s.watchlists.ListStocks(ctx, userID, watchlistID)
}
