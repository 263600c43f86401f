package timetable

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("timetable not found")

// Repository persists at most one timetable: a single mutable slot updated in
// place, never delete-then-insert, so readers cannot observe a transient
// window with no timetable at all.
type Repository interface {
	GetTimetable(ctx context.Context) (Timetable, error)
	SaveTimetable(ctx context.Context, tt Timetable) (Timetable, error)
	DeleteTimetable(ctx context.Context) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns the saved timetable, or the default empty grid when none has
// been saved yet.
func (svc *Service) Get(ctx context.Context) (Timetable, error) {
	tt, err := svc.repo.GetTimetable(ctx)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Default(), nil
		}
		return Timetable{}, err
	}
	return tt, nil
}

// Save replaces the singleton timetable with the provided grid.
func (svc *Service) Save(ctx context.Context, st SaveTimetable, createdBy string) (Timetable, error) {
	now := time.Now().UTC()
	return svc.repo.SaveTimetable(ctx, Timetable{
		TimeSlots: st.TimeSlots,
		Schedule:  st.Schedule,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *Service) Clear(ctx context.Context) error {
	return svc.repo.DeleteTimetable(ctx)
}
