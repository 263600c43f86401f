package inmemrepos

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/manumittu/unitracker/core/course"
)

type CourseRepository struct {
	mu      sync.RWMutex
	courses []course.Course
}

var _ course.Repository = (*CourseRepository)(nil) // interface compliance check

func NewCourseRepository() *CourseRepository {
	return &CourseRepository{}
}

func (repo *CourseRepository) CheckCodeUniqueness(ctx context.Context, code string) error {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, crs := range repo.courses {
		if crs.Code == code {
			return course.ErrCodeExists
		}
	}
	return nil
}

func (repo *CourseRepository) CreateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, existing := range repo.courses {
		if existing.Code == crs.Code {
			return course.Course{}, course.ErrCodeExists
		}
	}
	crs.ID = uuid.New().String()
	repo.courses = append(repo.courses, crs)
	return crs, nil
}

func (repo *CourseRepository) QueryAllCourses(ctx context.Context) ([]course.Course, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	courses := make([]course.Course, len(repo.courses))
	copy(courses, repo.courses)
	sort.Slice(courses, func(i, j int) bool { return courses[i].Code < courses[j].Code })
	return courses, nil
}

func (repo *CourseRepository) GetCourseByID(ctx context.Context, id string) (course.Course, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, crs := range repo.courses {
		if crs.ID == id {
			return crs, nil
		}
	}
	return course.Course{}, course.ErrNotFound
}

func (repo *CourseRepository) UpdateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, existing := range repo.courses {
		if existing.Code == crs.Code && existing.ID != crs.ID {
			return course.Course{}, course.ErrCodeExists
		}
	}
	for i, existing := range repo.courses {
		if existing.ID == crs.ID {
			repo.courses[i] = crs
			return crs, nil
		}
	}
	return course.Course{}, course.ErrNotFound
}

func (repo *CourseRepository) DeleteCourse(ctx context.Context, id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for i, existing := range repo.courses {
		if existing.ID == id {
			repo.courses = append(repo.courses[:i], repo.courses[i+1:]...)
			return nil
		}
	}
	return course.ErrNotFound
}
