package inmemrepos

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/manumittu/unitracker/core/appeal"
)

type AppealRepository struct {
	mu      sync.RWMutex
	appeals []appeal.Appeal
}

var _ appeal.Repository = (*AppealRepository)(nil) // interface compliance check

func NewAppealRepository() *AppealRepository {
	return &AppealRepository{}
}

func (repo *AppealRepository) CreateAppeal(ctx context.Context, ap appeal.Appeal) (appeal.Appeal, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	ap.ID = uuid.New().String()
	repo.appeals = append(repo.appeals, ap)
	return ap, nil
}

func (repo *AppealRepository) FilterAppeals(ctx context.Context, filter appeal.Filter) ([]appeal.Appeal, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	appeals := make([]appeal.Appeal, 0, len(repo.appeals))
	for i := len(repo.appeals) - 1; i >= 0; i-- { // newest first
		ap := repo.appeals[i]
		if filter.SubmittedBy != "" && ap.SubmittedBy != filter.SubmittedBy {
			continue
		}
		appeals = append(appeals, ap)
	}
	return appeals, nil
}

func (repo *AppealRepository) GetAppealByID(ctx context.Context, id string) (appeal.Appeal, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, ap := range repo.appeals {
		if ap.ID == id {
			return ap, nil
		}
	}
	return appeal.Appeal{}, appeal.ErrNotFound
}

func (repo *AppealRepository) UpdateAppeal(ctx context.Context, ap appeal.Appeal) (appeal.Appeal, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for i, existing := range repo.appeals {
		if existing.ID == ap.ID {
			repo.appeals[i] = ap
			return ap, nil
		}
	}
	return appeal.Appeal{}, appeal.ErrNotFound
}
