package pgrepos

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/manumittu/unitracker/core/quiz"
)

type quizRepository struct {
	db *sqlx.DB
}

var _ quiz.Repository = (*quizRepository)(nil) // interface compliance check

func NewQuizRepository(db *sqlx.DB) *quizRepository {
	return &quizRepository{db: db}
}

type quizRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Questions string    `db:"questions"` // jsonb
	CreatedBy string    `db:"created_by"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r quizRow) toDomain() (quiz.Quiz, error) {
	qz := quiz.Quiz{
		ID:        r.ID,
		Name:      r.Name,
		CreatedBy: r.CreatedBy,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if err := json.Unmarshal([]byte(r.Questions), &qz.Questions); err != nil {
		return quiz.Quiz{}, errors.Wrap(err, "decoding questions")
	}
	return qz, nil
}

func quizToRow(qz quiz.Quiz) (quizRow, error) {
	questions, err := json.Marshal(qz.Questions)
	if err != nil {
		return quizRow{}, errors.Wrap(err, "encoding questions")
	}
	return quizRow{
		ID:        qz.ID,
		Name:      qz.Name,
		Questions: string(questions),
		CreatedBy: qz.CreatedBy,
		CreatedAt: qz.CreatedAt,
		UpdatedAt: qz.UpdatedAt,
	}, nil
}

type resultRow struct {
	ID        string    `db:"id"`
	QuizID    string    `db:"quiz_id"`
	UserID    string    `db:"user_id"`
	Answers   string    `db:"answers"` // jsonb
	Score     int       `db:"score"`
	Total     int       `db:"total"`
	CreatedAt time.Time `db:"created_at"`
}

func (r resultRow) toDomain() (quiz.Result, error) {
	res := quiz.Result{
		ID:        r.ID,
		QuizID:    r.QuizID,
		UserID:    r.UserID,
		Score:     r.Score,
		Total:     r.Total,
		CreatedAt: r.CreatedAt,
	}
	if err := json.Unmarshal([]byte(r.Answers), &res.Answers); err != nil {
		return quiz.Result{}, errors.Wrap(err, "decoding answers")
	}
	return res, nil
}

func (repo quizRepository) CreateQuiz(ctx context.Context, qz quiz.Quiz) (quiz.Quiz, error) {
	qz.ID = uuid.New().String()
	row, err := quizToRow(qz)
	if err != nil {
		return quiz.Quiz{}, err
	}
	_, err = repo.db.NamedExecContext(ctx, `
		INSERT INTO quiz (id, name, questions, created_by, created_at, updated_at)
		VALUES (:id, :name, :questions, :created_by, :created_at, :updated_at)`, row)
	if err != nil {
		return quiz.Quiz{}, errors.Wrap(err, "inserting quiz")
	}
	return qz, nil
}

func (repo quizRepository) QueryAllQuizzes(ctx context.Context) ([]quiz.Quiz, error) {
	var rows []quizRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM quiz ORDER BY created_at DESC`); err != nil {
		return nil, errors.Wrap(err, "querying quizzes")
	}

	quizzes := make([]quiz.Quiz, 0, len(rows))
	for _, row := range rows {
		qz, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		quizzes = append(quizzes, qz)
	}
	return quizzes, nil
}

func (repo quizRepository) GetQuizByID(ctx context.Context, id string) (quiz.Quiz, error) {
	if _, err := uuid.Parse(id); err != nil {
		return quiz.Quiz{}, quiz.ErrNotFound
	}
	var row quizRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM quiz WHERE id = $1`, id); err != nil {
		return quiz.Quiz{}, trapNoRowsErr(err, quiz.ErrNotFound, "finding quiz by ID")
	}
	return row.toDomain()
}

func (repo quizRepository) UpdateQuiz(ctx context.Context, qz quiz.Quiz) (quiz.Quiz, error) {
	row, err := quizToRow(qz)
	if err != nil {
		return quiz.Quiz{}, err
	}
	res, err := repo.db.NamedExecContext(ctx, `
		UPDATE quiz
		SET name = :name, questions = :questions, updated_at = :updated_at
		WHERE id = :id`, row)
	if err != nil {
		return quiz.Quiz{}, errors.Wrap(err, "updating quiz")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return quiz.Quiz{}, quiz.ErrNotFound
	}
	return qz, nil
}

func (repo quizRepository) DeleteQuiz(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return quiz.ErrNotFound
	}
	res, err := repo.db.ExecContext(ctx, `DELETE FROM quiz WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting quiz")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return quiz.ErrNotFound
	}
	return nil
}

// CreateResult relies on the unique (quiz_id, user_id) constraint for the
// one-attempt-per-user rule.
func (repo quizRepository) CreateResult(ctx context.Context, res quiz.Result) (quiz.Result, error) {
	res.ID = uuid.New().String()
	answers, err := json.Marshal(res.Answers)
	if err != nil {
		return quiz.Result{}, errors.Wrap(err, "encoding answers")
	}
	row := resultRow{
		ID:        res.ID,
		QuizID:    res.QuizID,
		UserID:    res.UserID,
		Answers:   string(answers),
		Score:     res.Score,
		Total:     res.Total,
		CreatedAt: res.CreatedAt,
	}
	_, err = repo.db.NamedExecContext(ctx, `
		INSERT INTO quiz_result (id, quiz_id, user_id, answers, score, total, created_at)
		VALUES (:id, :quiz_id, :user_id, :answers, :score, :total, :created_at)`, row)
	if err != nil {
		if isUniqueViolation(err) {
			return quiz.Result{}, quiz.ErrAlreadySubmitted
		}
		return quiz.Result{}, errors.Wrap(err, "inserting quiz result")
	}
	return res, nil
}

func (repo quizRepository) FilterResults(ctx context.Context, filter quiz.ResultFilter) ([]quiz.Result, error) {
	query := `SELECT * FROM quiz_result`
	var clauses []string
	var args []interface{}
	if filter.QuizID != "" {
		args = append(args, filter.QuizID)
		clauses = append(clauses, `quiz_id = $1`)
	}
	if filter.UserID != "" {
		args = append(args, filter.UserID)
		if len(args) == 1 {
			clauses = append(clauses, `user_id = $1`)
		} else {
			clauses = append(clauses, `user_id = $2`)
		}
	}
	for i, clause := range clauses {
		if i == 0 {
			query += ` WHERE ` + clause
		} else {
			query += ` AND ` + clause
		}
	}
	query += ` ORDER BY created_at DESC`

	var rows []resultRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying quiz results")
	}

	results := make([]quiz.Result, 0, len(rows))
	for _, row := range rows {
		res, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}
