package inmemrepos

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/manumittu/unitracker/core/project"
)

type ProjectRepository struct {
	mu       sync.RWMutex
	projects []project.Project
}

var _ project.Repository = (*ProjectRepository)(nil) // interface compliance check

func NewProjectRepository() *ProjectRepository {
	return &ProjectRepository{}
}

func (repo *ProjectRepository) CreateProject(ctx context.Context, pr project.Project) (project.Project, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	pr.ID = uuid.New().String()
	repo.projects = append(repo.projects, pr)
	return pr, nil
}

func (repo *ProjectRepository) FilterProjects(ctx context.Context, filter project.Filter) ([]project.Project, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	projects := make([]project.Project, 0, len(repo.projects))
	for i := len(repo.projects) - 1; i >= 0; i-- { // newest first
		pr := repo.projects[i]
		if filter.SubmittedBy != "" && pr.SubmittedBy != filter.SubmittedBy {
			continue
		}
		projects = append(projects, pr)
	}
	return projects, nil
}

func (repo *ProjectRepository) GetProjectByID(ctx context.Context, id string) (project.Project, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, pr := range repo.projects {
		if pr.ID == id {
			return pr, nil
		}
	}
	return project.Project{}, project.ErrNotFound
}

func (repo *ProjectRepository) UpdateProject(ctx context.Context, pr project.Project) (project.Project, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for i, existing := range repo.projects {
		if existing.ID == pr.ID {
			repo.projects[i] = pr
			return pr, nil
		}
	}
	return project.Project{}, project.ErrNotFound
}
