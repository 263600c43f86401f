package inmemrepos

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/manumittu/unitracker/core/lostfound"
)

type LostFoundRepository struct {
	mu    sync.RWMutex
	items []lostfound.Item
}

var _ lostfound.Repository = (*LostFoundRepository)(nil) // interface compliance check

func NewLostFoundRepository() *LostFoundRepository {
	return &LostFoundRepository{}
}

func (repo *LostFoundRepository) CreateItem(ctx context.Context, it lostfound.Item) (lostfound.Item, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	it.ID = uuid.New().String()
	repo.items = append(repo.items, it)
	return it, nil
}

func (repo *LostFoundRepository) QueryAllItems(ctx context.Context) ([]lostfound.Item, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	items := make([]lostfound.Item, 0, len(repo.items))
	for i := len(repo.items) - 1; i >= 0; i-- { // newest first
		items = append(items, repo.items[i])
	}
	return items, nil
}

func (repo *LostFoundRepository) GetItemByID(ctx context.Context, id string) (lostfound.Item, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, it := range repo.items {
		if it.ID == id {
			return it, nil
		}
	}
	return lostfound.Item{}, lostfound.ErrNotFound
}

func (repo *LostFoundRepository) UpdateItem(ctx context.Context, it lostfound.Item) (lostfound.Item, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for i, existing := range repo.items {
		if existing.ID == it.ID {
			repo.items[i] = it
			return it, nil
		}
	}
	return lostfound.Item{}, lostfound.ErrNotFound
}

func (repo *LostFoundRepository) DeleteItem(ctx context.Context, id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for i, existing := range repo.items {
		if existing.ID == id {
			repo.items = append(repo.items[:i], repo.items[i+1:]...)
			return nil
		}
	}
	return lostfound.ErrNotFound
}
