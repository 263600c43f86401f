package project

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/manumittu/unitracker/core"
)

var ErrNotFound = errors.New("project not found")

type Repository interface {
	CreateProject(ctx context.Context, pr Project) (Project, error)
	// FilterProjects returns projects matching the filter, newest first.
	FilterProjects(ctx context.Context, filter Filter) ([]Project, error)
	GetProjectByID(ctx context.Context, id string) (Project, error)
	UpdateProject(ctx context.Context, pr Project) (Project, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, submittedBy string, np NewProject) (Project, error) {
	now := time.Now().UTC()
	return svc.repo.CreateProject(ctx, Project{
		Title:        np.Title,
		Description:  np.Description,
		TeamMembers:  np.TeamMembers,
		Technologies: np.Technologies,
		Status:       StatusPending,
		SubmittedBy:  submittedBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

func (svc *Service) Filter(ctx context.Context, filter Filter) ([]Project, error) {
	return svc.repo.FilterProjects(ctx, filter)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Project, error) {
	return svc.repo.GetProjectByID(ctx, id)
}

// SetStatus applies an admin verdict; approved/rejected are terminal.
func (svc *Service) SetStatus(ctx context.Context, id string, su StatusUpdate) (Project, error) {
	pr, err := svc.repo.GetProjectByID(ctx, id)
	if err != nil {
		return Project{}, err
	}

	if su.Status != pr.Status && !CanTransition(pr.Status, su.Status) {
		return Project{}, core.NewValidationError(
			errors.Errorf("cannot move project from %s to %s", pr.Status, su.Status),
			core.FieldError{Field: "status", Error: "invalid status transition"},
		)
	}

	pr.Status = su.Status
	if su.Feedback != "" {
		pr.Feedback = su.Feedback
	}
	pr.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateProject(ctx, pr)
}
