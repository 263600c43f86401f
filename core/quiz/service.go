package quiz

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var (
	ErrNotFound         = errors.New("quiz not found")
	ErrAlreadySubmitted = errors.New("quiz already attempted")
)

type Repository interface {
	CreateQuiz(ctx context.Context, qz Quiz) (Quiz, error)
	QueryAllQuizzes(ctx context.Context) ([]Quiz, error)
	GetQuizByID(ctx context.Context, id string) (Quiz, error)
	UpdateQuiz(ctx context.Context, qz Quiz) (Quiz, error)
	DeleteQuiz(ctx context.Context, id string) error
	// CreateResult fails with ErrAlreadySubmitted when a result already
	// exists for the same (quiz, user) pair.
	CreateResult(ctx context.Context, res Result) (Result, error)
	FilterResults(ctx context.Context, filter ResultFilter) ([]Result, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, nq NewQuiz, createdBy string) (Quiz, error) {
	now := time.Now().UTC()
	return svc.repo.CreateQuiz(ctx, Quiz{
		Name:      nq.Name,
		Questions: nq.Questions,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *Service) QueryAll(ctx context.Context) ([]Quiz, error) {
	return svc.repo.QueryAllQuizzes(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Quiz, error) {
	return svc.repo.GetQuizByID(ctx, id)
}

func (svc *Service) Update(ctx context.Context, orig Quiz, uq UpdateQuiz) (Quiz, error) {
	orig.Name = uq.Name
	orig.Questions = uq.Questions
	orig.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateQuiz(ctx, orig)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteQuiz(ctx, id)
}

// Submit scores the user's answers against the quiz and persists the result.
// One attempt per user per quiz; a second submission fails with
// ErrAlreadySubmitted.
func (svc *Service) Submit(ctx context.Context, quizID, userID string, sub Submission) (Result, error) {
	qz, err := svc.repo.GetQuizByID(ctx, quizID)
	if err != nil {
		return Result{}, err
	}

	var score int
	for i, q := range qz.Questions {
		if chosen, ok := sub.Answers[i]; ok && chosen == q.Correct {
			score++
		}
	}

	return svc.repo.CreateResult(ctx, Result{
		QuizID:    qz.ID,
		UserID:    userID,
		Answers:   sub.Answers,
		Score:     score,
		Total:     len(qz.Questions),
		CreatedAt: time.Now().UTC(),
	})
}

func (svc *Service) FilterResults(ctx context.Context, filter ResultFilter) ([]Result, error) {
	return svc.repo.FilterResults(ctx, filter)
}
