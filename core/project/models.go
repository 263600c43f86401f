package project

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/manumittu/unitracker/core"
)

// Project statuses. pending may move to a verdict; approved/rejected are
// terminal.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// CanTransition reports whether a project may move from one status to another.
func CanTransition(from, to string) bool {
	return from == StatusPending && (to == StatusApproved || to == StatusRejected)
}

type Project struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	TeamMembers  []string  `json:"teamMembers"`
	Technologies []string  `json:"technologies"`
	Status       string    `json:"status"`
	Feedback     string    `json:"feedback,omitempty"`
	SubmittedBy  string    `json:"submitted_by"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
}

type NewProject struct {
	Title        string   `json:"title" validate:"required"`
	Description  string   `json:"description" validate:"required"`
	TeamMembers  []string `json:"teamMembers"`
	Technologies []string `json:"technologies"`
}

func (np *NewProject) Validate(validate *validator.Validate) error {
	np.Title = core.CleanString(np.Title)
	return validate.Struct(np)
}

// StatusUpdate is an admin's verdict on a project idea, with optional
// feedback for the submitter.
type StatusUpdate struct {
	Status   string `json:"status" validate:"required,oneof=pending approved rejected"`
	Feedback string `json:"feedback"`
}

func (su *StatusUpdate) Validate(validate *validator.Validate) error {
	su.Status = core.CleanString(su.Status, true /* lower */)
	return validate.Struct(su)
}

// Filter narrows project listings; zero-valued fields are ignored.
type Filter struct {
	SubmittedBy string
}
