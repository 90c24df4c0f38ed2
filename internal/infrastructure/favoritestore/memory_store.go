package favoritestore

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"wallet_dashboard/internal/app/port"
	"wallet_dashboard/internal/domain/entity"
)

// MemoryStore keeps favorites in process memory. Contents are lost on restart.
type MemoryStore struct {
	mu     sync.RWMutex
	byUser map[string][]entity.FavoriteWallet // insertion order
	now    func() time.Time
}

var _ port.FavoritesStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byUser: make(map[string][]entity.FavoriteWallet),
		now:    time.Now,
	}
}

func (s *MemoryStore) Add(_ context.Context, fav entity.FavoriteWallet) (entity.FavoriteWallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.byUser[fav.UserID] {
		if existing.Address == fav.Address {
			return entity.FavoriteWallet{}, fmt.Errorf("%w: wallet already in favorites", entity.ErrAlreadyExists)
		}
	}
	fav.CreatedAt = s.now().UTC()
	s.byUser[fav.UserID] = append(s.byUser[fav.UserID], fav)
	return fav, nil
}

func (s *MemoryStore) Remove(_ context.Context, userID, address string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byUser[userID] = slices.DeleteFunc(s.byUser[userID], func(f entity.FavoriteWallet) bool {
		return f.Address == address
	})
	if len(s.byUser[userID]) == 0 {
		delete(s.byUser, userID)
	}
	return nil
}

// List returns favorites newest first; equal timestamps list the later insert first.
func (s *MemoryStore) List(_ context.Context, userID string) ([]entity.FavoriteWallet, error) {
	s.mu.RLock()
	items := slices.Clone(s.byUser[userID])
	s.mu.RUnlock()

	slices.Reverse(items)
	slices.SortStableFunc(items, func(a, b entity.FavoriteWallet) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if items == nil {
		items = []entity.FavoriteWallet{}
	}
	return items, nil
}
