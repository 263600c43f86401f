package pgrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/manumittu/unitracker/core/feedback"
)

type feedbackRepository struct {
	db *sqlx.DB
}

var _ feedback.Repository = (*feedbackRepository)(nil) // interface compliance check

func NewFeedbackRepository(db *sqlx.DB) *feedbackRepository {
	return &feedbackRepository{db: db}
}

type feedbackRow struct {
	ID          string      `db:"id"`
	FacultyName string      `db:"faculty_name"`
	Subject     string      `db:"subject"`
	Rating      int         `db:"rating"`
	Comments    null.String `db:"comments"`
	SubmittedBy string      `db:"submitted_by"`
	CreatedAt   time.Time   `db:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at"`
}

func (r feedbackRow) toDomain() feedback.Feedback {
	return feedback.Feedback{
		ID:          r.ID,
		FacultyName: r.FacultyName,
		Subject:     r.Subject,
		Rating:      r.Rating,
		Comments:    r.Comments.String,
		SubmittedBy: r.SubmittedBy,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func (repo feedbackRepository) CreateFeedback(ctx context.Context, fb feedback.Feedback) (feedback.Feedback, error) {
	fb.ID = uuid.New().String()
	row := feedbackRow{
		ID:          fb.ID,
		FacultyName: fb.FacultyName,
		Subject:     fb.Subject,
		Rating:      fb.Rating,
		Comments:    null.NewString(fb.Comments, fb.Comments != ""),
		SubmittedBy: fb.SubmittedBy,
		CreatedAt:   fb.CreatedAt,
		UpdatedAt:   fb.UpdatedAt,
	}
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO feedback (id, faculty_name, subject, rating, comments, submitted_by, created_at, updated_at)
		VALUES (:id, :faculty_name, :subject, :rating, :comments, :submitted_by, :created_at, :updated_at)`, row)
	if err != nil {
		return feedback.Feedback{}, errors.Wrap(err, "inserting feedback")
	}
	return fb, nil
}

func (repo feedbackRepository) QueryAllFeedback(ctx context.Context) ([]feedback.Feedback, error) {
	var rows []feedbackRow
	err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM feedback ORDER BY created_at DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "querying feedback")
	}

	all := make([]feedback.Feedback, 0, len(rows))
	for _, row := range rows {
		all = append(all, row.toDomain())
	}
	return all, nil
}
