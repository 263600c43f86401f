package pgrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/manumittu/unitracker/core/appeal"
)

type appealRepository struct {
	db *sqlx.DB
}

var _ appeal.Repository = (*appealRepository)(nil) // interface compliance check

func NewAppealRepository(db *sqlx.DB) *appealRepository {
	return &appealRepository{db: db}
}

type appealRow struct {
	ID            string      `db:"id"`
	CourseName    string      `db:"course_name"`
	CurrentGrade  string      `db:"current_grade"`
	ExpectedGrade string      `db:"expected_grade"`
	Reason        string      `db:"reason"`
	Status        string      `db:"status"`
	AdminResponse null.String `db:"admin_response"`
	SubmittedBy   string      `db:"submitted_by"`
	CreatedAt     time.Time   `db:"created_at"`
	UpdatedAt     time.Time   `db:"updated_at"`
}

func (r appealRow) toDomain() appeal.Appeal {
	return appeal.Appeal{
		ID:            r.ID,
		CourseName:    r.CourseName,
		CurrentGrade:  r.CurrentGrade,
		ExpectedGrade: r.ExpectedGrade,
		Reason:        r.Reason,
		Status:        r.Status,
		AdminResponse: r.AdminResponse.String,
		SubmittedBy:   r.SubmittedBy,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func appealToRow(ap appeal.Appeal) appealRow {
	return appealRow{
		ID:            ap.ID,
		CourseName:    ap.CourseName,
		CurrentGrade:  ap.CurrentGrade,
		ExpectedGrade: ap.ExpectedGrade,
		Reason:        ap.Reason,
		Status:        ap.Status,
		AdminResponse: null.NewString(ap.AdminResponse, ap.AdminResponse != ""),
		SubmittedBy:   ap.SubmittedBy,
		CreatedAt:     ap.CreatedAt,
		UpdatedAt:     ap.UpdatedAt,
	}
}

func (repo appealRepository) CreateAppeal(ctx context.Context, ap appeal.Appeal) (appeal.Appeal, error) {
	ap.ID = uuid.New().String()
	row := appealToRow(ap)
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO grade_appeal (id, course_name, current_grade, expected_grade, reason,
		                          status, admin_response, submitted_by, created_at, updated_at)
		VALUES (:id, :course_name, :current_grade, :expected_grade, :reason,
		        :status, :admin_response, :submitted_by, :created_at, :updated_at)`, row)
	if err != nil {
		return appeal.Appeal{}, errors.Wrap(err, "inserting appeal")
	}
	return ap, nil
}

func (repo appealRepository) FilterAppeals(ctx context.Context, filter appeal.Filter) ([]appeal.Appeal, error) {
	query := `SELECT * FROM grade_appeal`
	var args []interface{}
	if filter.SubmittedBy != "" {
		query += ` WHERE submitted_by = $1`
		args = append(args, filter.SubmittedBy)
	}
	query += ` ORDER BY created_at DESC`

	var rows []appealRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying appeals")
	}

	appeals := make([]appeal.Appeal, 0, len(rows))
	for _, row := range rows {
		appeals = append(appeals, row.toDomain())
	}
	return appeals, nil
}

func (repo appealRepository) GetAppealByID(ctx context.Context, id string) (appeal.Appeal, error) {
	if _, err := uuid.Parse(id); err != nil {
		return appeal.Appeal{}, appeal.ErrNotFound
	}
	var row appealRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM grade_appeal WHERE id = $1`, id); err != nil {
		return appeal.Appeal{}, trapNoRowsErr(err, appeal.ErrNotFound, "finding appeal by ID")
	}
	return row.toDomain(), nil
}

func (repo appealRepository) UpdateAppeal(ctx context.Context, ap appeal.Appeal) (appeal.Appeal, error) {
	row := appealToRow(ap)
	res, err := repo.db.NamedExecContext(ctx, `
		UPDATE grade_appeal
		SET status = :status, admin_response = :admin_response, updated_at = :updated_at
		WHERE id = :id`, row)
	if err != nil {
		return appeal.Appeal{}, errors.Wrap(err, "updating appeal")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return appeal.Appeal{}, appeal.ErrNotFound
	}
	return ap, nil
}
