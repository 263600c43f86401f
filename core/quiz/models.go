package quiz

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/manumittu/unitracker/core"
)

const optionsPerQuestion = 4

type Question struct {
	Text    string   `json:"question"`
	Options []string `json:"options"`
	Correct int      `json:"correct"`
}

type Quiz struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Questions []Question `json:"questions"`
	CreatedBy string     `json:"created_by"`
	CreatedAt time.Time  `json:"created_at"` // UTC
	UpdatedAt time.Time  `json:"updated_at"` // UTC
}

// Result is one user's scored attempt at a quiz. A user gets a single attempt
// per quiz.
type Result struct {
	ID        string      `json:"id"`
	QuizID    string      `json:"quiz_id"`
	UserID    string      `json:"user_id"`
	Answers   map[int]int `json:"answers"` // question index -> chosen option
	Score     int         `json:"score"`
	Total     int         `json:"total"`
	CreatedAt time.Time   `json:"created_at"` // UTC
}

// NewQuiz contains information needed to create a new Quiz.
type NewQuiz struct {
	Name      string     `json:"name" validate:"required"`
	Questions []Question `json:"questions" validate:"required,min=1"`
}

func (nq *NewQuiz) Validate(validate *validator.Validate) error {
	nq.Name = core.CleanString(nq.Name)

	if err := validate.Struct(nq); err != nil {
		return err
	}
	return validateQuestions(nq.Questions)
}

// UpdateQuiz mirrors NewQuiz; a quiz is always replaced wholesale.
type UpdateQuiz = NewQuiz

func validateQuestions(questions []Question) error {
	for i, q := range questions {
		fld := fmt.Sprintf("questions[%d]", i)
		if core.CleanString(q.Text) == "" {
			return core.NewValidationError(
				errors.New("question text is required"),
				core.FieldError{Field: fld, Error: "question text is required"},
			)
		}
		if len(q.Options) != optionsPerQuestion {
			return core.NewValidationError(
				errors.Errorf("questions must have %d options", optionsPerQuestion),
				core.FieldError{Field: fld, Error: fmt.Sprintf("exactly %d options are required", optionsPerQuestion)},
			)
		}
		if q.Correct < 0 || q.Correct >= optionsPerQuestion {
			return core.NewValidationError(
				errors.New("correct option out of range"),
				core.FieldError{Field: fld, Error: "correct option must index one of the options"},
			)
		}
	}
	return nil
}

// Submission carries a user's answers, keyed by question index.
type Submission struct {
	Answers map[int]int `json:"answers" validate:"required"`
}

func (s *Submission) Validate(validate *validator.Validate) error {
	return validate.Struct(s)
}

// ResultFilter narrows result listings; zero-valued fields are ignored.
type ResultFilter struct {
	QuizID string
	UserID string
}
