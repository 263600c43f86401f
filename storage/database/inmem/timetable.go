package inmemrepos

import (
	"context"
	"sync"

	"github.com/manumittu/unitracker/core/timetable"
)

type TimetableRepository struct {
	mu sync.RWMutex
	tt *timetable.Timetable
}

var _ timetable.Repository = (*TimetableRepository)(nil) // interface compliance check

func NewTimetableRepository() *TimetableRepository {
	return &TimetableRepository{}
}

func (repo *TimetableRepository) GetTimetable(ctx context.Context) (timetable.Timetable, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	if repo.tt == nil {
		return timetable.Timetable{}, timetable.ErrNotFound
	}
	return *repo.tt, nil
}

func (repo *TimetableRepository) SaveTimetable(ctx context.Context, tt timetable.Timetable) (timetable.Timetable, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	repo.tt = &tt
	return tt, nil
}

func (repo *TimetableRepository) DeleteTimetable(ctx context.Context) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if repo.tt == nil {
		return timetable.ErrNotFound
	}
	repo.tt = nil
	return nil
}
