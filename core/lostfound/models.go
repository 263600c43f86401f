package lostfound

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/manumittu/unitracker/core"
)

// Item types
const (
	TypeLost  = "lost"
	TypeFound = "found"
)

// Item statuses
const (
	StatusOpen     = "open"
	StatusClaimed  = "claimed"
	StatusResolved = "resolved"
)

type Item struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	ItemName    string    `json:"itemName"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Date        time.Time `json:"date"`
	ContactInfo string    `json:"contactInfo"`
	Status      string    `json:"status"`
	PostedBy    string    `json:"posted_by"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

type NewItem struct {
	Type        string    `json:"type" validate:"required,oneof=lost found"`
	ItemName    string    `json:"itemName" validate:"required"`
	Description string    `json:"description" validate:"required"`
	Location    string    `json:"location" validate:"required"`
	Date        time.Time `json:"date" validate:"required"`
	ContactInfo string    `json:"contactInfo" validate:"required"`
}

func (ni *NewItem) Validate(validate *validator.Validate) error {
	ni.Type = core.CleanString(ni.Type, true /* lower */)
	ni.ItemName = core.CleanString(ni.ItemName)
	ni.Location = core.CleanString(ni.Location)
	return validate.Struct(ni)
}

// UpdateItem patches an existing Item; empty fields fall back to the original
// values.
type UpdateItem struct {
	ItemName    string    `json:"itemName"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Date        time.Time `json:"date"`
	ContactInfo string    `json:"contactInfo"`
	Status      string    `json:"status" validate:"omitempty,oneof=open claimed resolved"`
}

func (ui *UpdateItem) Validate(validate *validator.Validate) error {
	ui.ItemName = core.CleanString(ui.ItemName)
	ui.Status = core.CleanString(ui.Status, true /* lower */)
	return validate.Struct(ui)
}
