package caching

import (
	"context"
	"sync"
	"time"

	"monktrader/internal/repositories"
)

// Blocklist is the process-wide set of blocked user ids, consulted on every
// authenticated request. It is refreshed on an interval by a background job;
// the interval is the accepted staleness bound for block enforcement.
type Blocklist struct {
	mu          sync.RWMutex
	ids         map[int64]struct{}
	refreshedAt time.Time
	users       repositories.UserRepository
}

func NewBlocklist(users repositories.UserRepository) *Blocklist {
	return &Blocklist{
		ids:   make(map[int64]struct{}),
		users: users,
	}
}

// Refresh replaces the cached set with the current database state.
func (b *Blocklist) Refresh(ctx context.Context) error {
	blocked, err := b.users.ListBlockedIDs(ctx)
	if err != nil {
		return err
	}

	next := make(map[int64]struct{}, len(blocked))
	for _, id := range blocked {
		next[id] = struct{}{}
	}

	b.mu.Lock()
	b.ids = next
	b.refreshedAt = time.Now()
	b.mu.Unlock()
	return nil
}

func (b *Blocklist) IsBlocked(userID int64) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, blocked := b.ids[userID]
	return blocked
}

// LastRefreshed reports when the set was last synced. Zero until the first
// refresh completes.
func (b *Blocklist) LastRefreshed() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.refreshedAt
}
