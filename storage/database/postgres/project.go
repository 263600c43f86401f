package pgrepos

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/manumittu/unitracker/core/project"
)

type projectRepository struct {
	db *sqlx.DB
}

var _ project.Repository = (*projectRepository)(nil) // interface compliance check

func NewProjectRepository(db *sqlx.DB) *projectRepository {
	return &projectRepository{db: db}
}

type projectRow struct {
	ID           string      `db:"id"`
	Title        string      `db:"title"`
	Description  string      `db:"description"`
	TeamMembers  string      `db:"team_members"` // jsonb
	Technologies string      `db:"technologies"` // jsonb
	Status       string      `db:"status"`
	Feedback     null.String `db:"feedback"`
	SubmittedBy  string      `db:"submitted_by"`
	CreatedAt    time.Time   `db:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at"`
}

func (r projectRow) toDomain() (project.Project, error) {
	pr := project.Project{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
		Feedback:    r.Feedback.String,
		SubmittedBy: r.SubmittedBy,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if err := json.Unmarshal([]byte(r.TeamMembers), &pr.TeamMembers); err != nil {
		return project.Project{}, errors.Wrap(err, "decoding team members")
	}
	if err := json.Unmarshal([]byte(r.Technologies), &pr.Technologies); err != nil {
		return project.Project{}, errors.Wrap(err, "decoding technologies")
	}
	return pr, nil
}

func projectToRow(pr project.Project) (projectRow, error) {
	if pr.TeamMembers == nil {
		pr.TeamMembers = []string{}
	}
	if pr.Technologies == nil {
		pr.Technologies = []string{}
	}
	members, err := json.Marshal(pr.TeamMembers)
	if err != nil {
		return projectRow{}, errors.Wrap(err, "encoding team members")
	}
	techs, err := json.Marshal(pr.Technologies)
	if err != nil {
		return projectRow{}, errors.Wrap(err, "encoding technologies")
	}
	return projectRow{
		ID:           pr.ID,
		Title:        pr.Title,
		Description:  pr.Description,
		TeamMembers:  string(members),
		Technologies: string(techs),
		Status:       pr.Status,
		Feedback:     null.NewString(pr.Feedback, pr.Feedback != ""),
		SubmittedBy:  pr.SubmittedBy,
		CreatedAt:    pr.CreatedAt,
		UpdatedAt:    pr.UpdatedAt,
	}, nil
}

func (repo projectRepository) CreateProject(ctx context.Context, pr project.Project) (project.Project, error) {
	pr.ID = uuid.New().String()
	row, err := projectToRow(pr)
	if err != nil {
		return project.Project{}, err
	}
	_, err = repo.db.NamedExecContext(ctx, `
		INSERT INTO project (id, title, description, team_members, technologies,
		                     status, feedback, submitted_by, created_at, updated_at)
		VALUES (:id, :title, :description, :team_members, :technologies,
		        :status, :feedback, :submitted_by, :created_at, :updated_at)`, row)
	if err != nil {
		return project.Project{}, errors.Wrap(err, "inserting project")
	}
	return pr, nil
}

func (repo projectRepository) FilterProjects(ctx context.Context, filter project.Filter) ([]project.Project, error) {
	query := `SELECT * FROM project`
	var args []interface{}
	if filter.SubmittedBy != "" {
		query += ` WHERE submitted_by = $1`
		args = append(args, filter.SubmittedBy)
	}
	query += ` ORDER BY created_at DESC`

	var rows []projectRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying projects")
	}

	projects := make([]project.Project, 0, len(rows))
	for _, row := range rows {
		pr, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		projects = append(projects, pr)
	}
	return projects, nil
}

func (repo projectRepository) GetProjectByID(ctx context.Context, id string) (project.Project, error) {
	if _, err := uuid.Parse(id); err != nil {
		return project.Project{}, project.ErrNotFound
	}
	var row projectRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM project WHERE id = $1`, id); err != nil {
		return project.Project{}, trapNoRowsErr(err, project.ErrNotFound, "finding project by ID")
	}
	return row.toDomain()
}

func (repo projectRepository) UpdateProject(ctx context.Context, pr project.Project) (project.Project, error) {
	row, err := projectToRow(pr)
	if err != nil {
		return project.Project{}, err
	}
	res, err := repo.db.NamedExecContext(ctx, `
		UPDATE project
		SET title = :title, description = :description, team_members = :team_members,
		    technologies = :technologies, status = :status, feedback = :feedback, updated_at = :updated_at
		WHERE id = :id`, row)
	if err != nil {
		return project.Project{}, errors.Wrap(err, "updating project")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return project.Project{}, project.ErrNotFound
	}
	return pr, nil
}
