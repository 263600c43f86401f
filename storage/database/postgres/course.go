package pgrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/manumittu/unitracker/core/course"
)

type courseRepository struct {
	db *sqlx.DB
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *sqlx.DB) *courseRepository {
	return &courseRepository{db: db}
}

type courseRow struct {
	ID          string      `db:"id"`
	Code        string      `db:"code"`
	Name        string      `db:"name"`
	Credits     int         `db:"credits"`
	Department  string      `db:"department"`
	Description null.String `db:"description"`
	Instructor  null.String `db:"instructor"`
	CreatedAt   time.Time   `db:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at"`
}

func (r courseRow) toDomain() course.Course {
	return course.Course{
		ID:          r.ID,
		Code:        r.Code,
		Name:        r.Name,
		Credits:     r.Credits,
		Department:  r.Department,
		Description: r.Description.String,
		Instructor:  r.Instructor.String,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func courseToRow(crs course.Course) courseRow {
	return courseRow{
		ID:          crs.ID,
		Code:        crs.Code,
		Name:        crs.Name,
		Credits:     crs.Credits,
		Department:  crs.Department,
		Description: null.NewString(crs.Description, crs.Description != ""),
		Instructor:  null.NewString(crs.Instructor, crs.Instructor != ""),
		CreatedAt:   crs.CreatedAt,
		UpdatedAt:   crs.UpdatedAt,
	}
}

func (repo courseRepository) CheckCodeUniqueness(ctx context.Context, code string) error {
	var exists bool
	err := repo.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM course WHERE code = $1)`, code)
	if err != nil {
		return errors.Wrap(err, "checking code uniqueness")
	}
	if exists {
		return course.ErrCodeExists
	}
	return nil
}

func (repo courseRepository) CreateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	crs.ID = uuid.New().String()
	row := courseToRow(crs)
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO course (id, code, name, credits, department, description, instructor, created_at, updated_at)
		VALUES (:id, :code, :name, :credits, :department, :description, :instructor, :created_at, :updated_at)`, row)
	if err != nil {
		if isUniqueViolation(err) {
			return course.Course{}, course.ErrCodeExists
		}
		return course.Course{}, errors.Wrap(err, "inserting course")
	}
	return crs, nil
}

func (repo courseRepository) QueryAllCourses(ctx context.Context) ([]course.Course, error) {
	var rows []courseRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM course ORDER BY code`); err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}

	courses := make([]course.Course, 0, len(rows))
	for _, row := range rows {
		courses = append(courses, row.toDomain())
	}
	return courses, nil
}

func (repo courseRepository) GetCourseByID(ctx context.Context, id string) (course.Course, error) {
	if _, err := uuid.Parse(id); err != nil {
		return course.Course{}, course.ErrNotFound
	}
	var row courseRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM course WHERE id = $1`, id); err != nil {
		return course.Course{}, trapNoRowsErr(err, course.ErrNotFound, "finding course by ID")
	}
	return row.toDomain(), nil
}

func (repo courseRepository) UpdateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	row := courseToRow(crs)
	res, err := repo.db.NamedExecContext(ctx, `
		UPDATE course
		SET code = :code, name = :name, credits = :credits, department = :department,
		    description = :description, instructor = :instructor, updated_at = :updated_at
		WHERE id = :id`, row)
	if err != nil {
		if isUniqueViolation(err) {
			return course.Course{}, course.ErrCodeExists
		}
		return course.Course{}, errors.Wrap(err, "updating course")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return course.Course{}, course.ErrNotFound
	}
	return crs, nil
}

func (repo courseRepository) DeleteCourse(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return course.ErrNotFound
	}
	res, err := repo.db.ExecContext(ctx, `DELETE FROM course WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting course")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return course.ErrNotFound
	}
	return nil
}
