package feedback

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/manumittu/unitracker/core"
)

type Feedback struct {
	ID          string    `json:"id"`
	FacultyName string    `json:"facultyName"`
	Subject     string    `json:"subject"`
	Rating      int       `json:"rating"`
	Comments    string    `json:"comments,omitempty"`
	SubmittedBy string    `json:"submitted_by"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

type NewFeedback struct {
	FacultyName string `json:"facultyName" validate:"required"`
	Subject     string `json:"subject" validate:"required"`
	Rating      int    `json:"rating" validate:"required,min=1,max=5"`
	Comments    string `json:"comments"`
}

func (nf *NewFeedback) Validate(validate *validator.Validate) error {
	nf.FacultyName = core.CleanString(nf.FacultyName)
	nf.Subject = core.CleanString(nf.Subject)
	return validate.Struct(nf)
}
