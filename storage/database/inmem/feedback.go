package inmemrepos

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/manumittu/unitracker/core/feedback"
)

type FeedbackRepository struct {
	mu  sync.RWMutex
	all []feedback.Feedback
}

var _ feedback.Repository = (*FeedbackRepository)(nil) // interface compliance check

func NewFeedbackRepository() *FeedbackRepository {
	return &FeedbackRepository{}
}

func (repo *FeedbackRepository) CreateFeedback(ctx context.Context, fb feedback.Feedback) (feedback.Feedback, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	fb.ID = uuid.New().String()
	repo.all = append(repo.all, fb)
	return fb, nil
}

func (repo *FeedbackRepository) QueryAllFeedback(ctx context.Context) ([]feedback.Feedback, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	all := make([]feedback.Feedback, 0, len(repo.all))
	for i := len(repo.all) - 1; i >= 0; i-- { // newest first
		all = append(all, repo.all[i])
	}
	return all, nil
}
