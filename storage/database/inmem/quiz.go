package inmemrepos

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/manumittu/unitracker/core/quiz"
)

type QuizRepository struct {
	mu      sync.RWMutex
	quizzes []quiz.Quiz
	results []quiz.Result
}

var _ quiz.Repository = (*QuizRepository)(nil) // interface compliance check

func NewQuizRepository() *QuizRepository {
	return &QuizRepository{}
}

func (repo *QuizRepository) CreateQuiz(ctx context.Context, qz quiz.Quiz) (quiz.Quiz, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	qz.ID = uuid.New().String()
	repo.quizzes = append(repo.quizzes, qz)
	return qz, nil
}

func (repo *QuizRepository) QueryAllQuizzes(ctx context.Context) ([]quiz.Quiz, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	quizzes := make([]quiz.Quiz, 0, len(repo.quizzes))
	for i := len(repo.quizzes) - 1; i >= 0; i-- { // newest first
		quizzes = append(quizzes, repo.quizzes[i])
	}
	return quizzes, nil
}

func (repo *QuizRepository) GetQuizByID(ctx context.Context, id string) (quiz.Quiz, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, qz := range repo.quizzes {
		if qz.ID == id {
			return qz, nil
		}
	}
	return quiz.Quiz{}, quiz.ErrNotFound
}

func (repo *QuizRepository) UpdateQuiz(ctx context.Context, qz quiz.Quiz) (quiz.Quiz, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for i, existing := range repo.quizzes {
		if existing.ID == qz.ID {
			repo.quizzes[i] = qz
			return qz, nil
		}
	}
	return quiz.Quiz{}, quiz.ErrNotFound
}

func (repo *QuizRepository) DeleteQuiz(ctx context.Context, id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for i, existing := range repo.quizzes {
		if existing.ID == id {
			repo.quizzes = append(repo.quizzes[:i], repo.quizzes[i+1:]...)
			return nil
		}
	}
	return quiz.ErrNotFound
}

func (repo *QuizRepository) CreateResult(ctx context.Context, res quiz.Result) (quiz.Result, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, existing := range repo.results {
		if existing.QuizID == res.QuizID && existing.UserID == res.UserID {
			return quiz.Result{}, quiz.ErrAlreadySubmitted
		}
	}
	res.ID = uuid.New().String()
	repo.results = append(repo.results, res)
	return res, nil
}

func (repo *QuizRepository) FilterResults(ctx context.Context, filter quiz.ResultFilter) ([]quiz.Result, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	results := make([]quiz.Result, 0, len(repo.results))
	for i := len(repo.results) - 1; i >= 0; i-- { // newest first
		res := repo.results[i]
		if filter.QuizID != "" && res.QuizID != filter.QuizID {
			continue
		}
		if filter.UserID != "" && res.UserID != filter.UserID {
			continue
		}
		results = append(results, res)
	}
	return results, nil
}
