package appeal

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/manumittu/unitracker/core"
)

// Appeal statuses. pending may move to under_review or straight to a verdict;
// under_review may only move to a verdict; approved/rejected are terminal.
const (
	StatusPending     = "pending"
	StatusUnderReview = "under_review"
	StatusApproved    = "approved"
	StatusRejected    = "rejected"
)

var transitions = map[string][]string{
	StatusPending:     {StatusUnderReview, StatusApproved, StatusRejected},
	StatusUnderReview: {StatusApproved, StatusRejected},
}

// CanTransition reports whether an appeal may move from one status to another.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Appeal struct {
	ID            string    `json:"id"`
	CourseName    string    `json:"courseName"`
	CurrentGrade  string    `json:"currentGrade"`
	ExpectedGrade string    `json:"expectedGrade"`
	Reason        string    `json:"reason"`
	Status        string    `json:"status"`
	AdminResponse string    `json:"adminResponse,omitempty"`
	SubmittedBy   string    `json:"submitted_by"`
	CreatedAt     time.Time `json:"created_at"` // UTC
	UpdatedAt     time.Time `json:"updated_at"` // UTC
}

type NewAppeal struct {
	CourseName    string `json:"courseName" validate:"required"`
	CurrentGrade  string `json:"currentGrade" validate:"required"`
	ExpectedGrade string `json:"expectedGrade" validate:"required"`
	Reason        string `json:"reason" validate:"required"`
}

func (na *NewAppeal) Validate(validate *validator.Validate) error {
	na.CourseName = core.CleanString(na.CourseName)
	na.CurrentGrade = core.CleanString(na.CurrentGrade)
	na.ExpectedGrade = core.CleanString(na.ExpectedGrade)
	return validate.Struct(na)
}

// StatusUpdate is an admin's decision on an appeal, with an optional response
// for the student.
type StatusUpdate struct {
	Status        string `json:"status" validate:"required,oneof=pending under_review approved rejected"`
	AdminResponse string `json:"adminResponse"`
}

func (su *StatusUpdate) Validate(validate *validator.Validate) error {
	su.Status = core.CleanString(su.Status, true /* lower */)
	return validate.Struct(su)
}

// Filter narrows appeal listings; zero-valued fields are ignored.
type Filter struct {
	SubmittedBy string
}
