package appeal

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/manumittu/unitracker/core"
)

var ErrNotFound = errors.New("appeal not found")

type Repository interface {
	CreateAppeal(ctx context.Context, ap Appeal) (Appeal, error)
	// FilterAppeals returns appeals matching the filter, newest first.
	FilterAppeals(ctx context.Context, filter Filter) ([]Appeal, error)
	GetAppealByID(ctx context.Context, id string) (Appeal, error)
	UpdateAppeal(ctx context.Context, ap Appeal) (Appeal, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, submittedBy string, na NewAppeal) (Appeal, error) {
	now := time.Now().UTC()
	return svc.repo.CreateAppeal(ctx, Appeal{
		CourseName:    na.CourseName,
		CurrentGrade:  na.CurrentGrade,
		ExpectedGrade: na.ExpectedGrade,
		Reason:        na.Reason,
		Status:        StatusPending,
		SubmittedBy:   submittedBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
}

func (svc *Service) Filter(ctx context.Context, filter Filter) ([]Appeal, error) {
	return svc.repo.FilterAppeals(ctx, filter)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Appeal, error) {
	return svc.repo.GetAppealByID(ctx, id)
}

// SetStatus applies an admin decision, enforcing the status machine:
// approved/rejected are terminal and under_review cannot go back to pending.
func (svc *Service) SetStatus(ctx context.Context, id string, su StatusUpdate) (Appeal, error) {
	ap, err := svc.repo.GetAppealByID(ctx, id)
	if err != nil {
		return Appeal{}, err
	}

	if su.Status != ap.Status && !CanTransition(ap.Status, su.Status) {
		return Appeal{}, core.NewValidationError(
			errors.Errorf("cannot move appeal from %s to %s", ap.Status, su.Status),
			core.FieldError{Field: "status", Error: "invalid status transition"},
		)
	}

	ap.Status = su.Status
	if su.AdminResponse != "" {
		ap.AdminResponse = su.AdminResponse
	}
	ap.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateAppeal(ctx, ap)
}
