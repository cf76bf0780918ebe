package models

import "time"

type Watchlist struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type WatchlistStock struct {
	WatchlistID int64     `json:"watchlist_id" db:"watchlist_id"`
	Symbol      string    `json:"symbol" db:"symbol"`
	AddedAt     time.Time `json:"added_at" db:"added_at"`
}
