package course

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/manumittu/unitracker/core"
)

var (
	ErrNotFound   = errors.New("course not found")
	ErrCodeExists = errors.New("a course with this code already exists")
)

type Repository interface {
	CheckCodeUniqueness(ctx context.Context, code string) error
	CreateCourse(ctx context.Context, crs Course) (Course, error)
	QueryAllCourses(ctx context.Context) ([]Course, error)
	GetCourseByID(ctx context.Context, id string) (Course, error)
	UpdateCourse(ctx context.Context, crs Course) (Course, error)
	DeleteCourse(ctx context.Context, id string) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) CheckCodeUniqueness(ctx context.Context, code string) error {
	if err := svc.repo.CheckCodeUniqueness(ctx, code); err != nil {
		if err == ErrCodeExists {
			return core.NewValidationError(err, core.FieldError{Field: "code", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, nc NewCourse) (Course, error) {
	now := time.Now().UTC()
	return svc.repo.CreateCourse(ctx, Course{
		Code:        nc.Code,
		Name:        nc.Name,
		Credits:     nc.Credits,
		Department:  nc.Department,
		Description: nc.Description,
		Instructor:  nc.Instructor,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (svc *Service) QueryAll(ctx context.Context) ([]Course, error) {
	return svc.repo.QueryAllCourses(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Course, error) {
	return svc.repo.GetCourseByID(ctx, id)
}

func (svc *Service) Update(ctx context.Context, orig Course, uc UpdateCourse) (Course, error) {
	orig.Code = uc.Code
	orig.Name = uc.Name
	orig.Credits = uc.Credits
	orig.Department = uc.Department
	orig.Description = uc.Description
	orig.Instructor = uc.Instructor
	orig.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateCourse(ctx, orig)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteCourse(ctx, id)
}
