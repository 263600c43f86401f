package course

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/manumittu/unitracker/core"
)

type Course struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Credits     int       `json:"credits"`
	Department  string    `json:"department"`
	Description string    `json:"description,omitempty"`
	Instructor  string    `json:"instructor,omitempty"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	Code        string `json:"code" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Credits     int    `json:"credits" validate:"required,min=1"`
	Department  string `json:"department" validate:"required"`
	Description string `json:"description"`
	Instructor  string `json:"instructor"`
}

func (nc *NewCourse) Validate(ctx context.Context, validate *validator.Validate, svc *Service) error {
	nc.Code = core.CleanString(nc.Code)
	nc.Name = core.CleanString(nc.Name)
	nc.Department = core.CleanString(nc.Department)

	if err := validate.Struct(nc); err != nil {
		return err
	}
	return svc.CheckCodeUniqueness(ctx, nc.Code)
}

// UpdateCourse defines what information may be provided to modify an existing
// Course. Empty fields fall back to the original values.
type UpdateCourse struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Credits     int    `json:"credits" validate:"omitempty,min=1"`
	Department  string `json:"department"`
	Description string `json:"description"`
	Instructor  string `json:"instructor"`
}

func (uc *UpdateCourse) Validate(ctx context.Context, orig Course, validate *validator.Validate, svc *Service) error {
	if code := core.CleanString(uc.Code); code != "" {
		uc.Code = code
	} else {
		uc.Code = orig.Code
	}
	if name := core.CleanString(uc.Name); name != "" {
		uc.Name = name
	} else {
		uc.Name = orig.Name
	}
	if dept := core.CleanString(uc.Department); dept != "" {
		uc.Department = dept
	} else {
		uc.Department = orig.Department
	}
	if uc.Credits == 0 {
		uc.Credits = orig.Credits
	}
	if desc := core.CleanString(uc.Description); desc != "" {
		uc.Description = desc
	} else {
		uc.Description = orig.Description
	}
	if instr := core.CleanString(uc.Instructor); instr != "" {
		uc.Instructor = instr
	} else {
		uc.Instructor = orig.Instructor
	}

	if err := validate.Struct(uc); err != nil {
		return err
	}
	if uc.Code != orig.Code {
		return svc.CheckCodeUniqueness(ctx, uc.Code)
	}
	return nil
}
