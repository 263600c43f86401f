package canteen

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/manumittu/unitracker/core"
)

type MenuItem struct {
	ID           string    `json:"id"`
	ItemName     string    `json:"itemName"`
	Category     string    `json:"category"`
	Price        float64   `json:"price"`
	Availability bool      `json:"availability"`
	PrepTime     string    `json:"prepTime"`
	ImageURL     string    `json:"imageUrl"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
}

type NewMenuItem struct {
	ItemName     string  `json:"itemName" validate:"required"`
	Category     string  `json:"category"`
	Price        float64 `json:"price" validate:"omitempty,min=0"`
	Availability *bool   `json:"availability"`
	PrepTime     string  `json:"prepTime"`
	ImageURL     string  `json:"imageUrl"`
}

func (nm *NewMenuItem) Validate(validate *validator.Validate) error {
	nm.ItemName = core.CleanString(nm.ItemName)
	nm.Category = core.CleanString(nm.Category)
	return validate.Struct(nm)
}

func (nm *NewMenuItem) Available() bool {
	if nm.Availability == nil {
		return true
	}
	return *nm.Availability
}

// Booking is one pre-booked canteen order.
type Booking struct {
	ID                  string    `json:"id"`
	UserID              string    `json:"user_id"`
	StudentID           string    `json:"studentId"`
	Name                string    `json:"name"`
	Date                time.Time `json:"date"`
	TimeSlot            string    `json:"timeSlot"`
	FoodItem            string    `json:"foodItem"`
	Quantity            int       `json:"quantity"`
	PaymentMode         string    `json:"paymentMode"`
	SpecialInstructions string    `json:"specialInstructions"`
	Confirmed           bool      `json:"confirmed"`
	CreatedAt           time.Time `json:"created_at"` // UTC
	UpdatedAt           time.Time `json:"updated_at"` // UTC
}

type NewBooking struct {
	StudentID           string    `json:"studentId"`
	Name                string    `json:"name"`
	Date                time.Time `json:"date"`
	TimeSlot            string    `json:"timeSlot"`
	FoodItem            string    `json:"foodItem" validate:"required"`
	Quantity            int       `json:"quantity" validate:"omitempty,min=1"`
	PaymentMode         string    `json:"paymentMode"`
	SpecialInstructions string    `json:"specialInstructions"`
}

func (nb *NewBooking) Validate(validate *validator.Validate) error {
	nb.FoodItem = core.CleanString(nb.FoodItem)
	if nb.Quantity == 0 {
		nb.Quantity = 1
	}
	if nb.PaymentMode == "" {
		nb.PaymentMode = "Cash"
	}
	if nb.Date.IsZero() {
		nb.Date = time.Now().UTC()
	}
	return validate.Struct(nb)
}

// UpdateBooking may patch the mutable fields of a Booking; zero values leave
// the original untouched (Confirmed being the exception, carried as pointer).
type UpdateBooking struct {
	Date                time.Time `json:"date"`
	TimeSlot            string    `json:"timeSlot"`
	FoodItem            string    `json:"foodItem"`
	Quantity            int       `json:"quantity" validate:"omitempty,min=1"`
	PaymentMode         string    `json:"paymentMode"`
	SpecialInstructions string    `json:"specialInstructions"`
	Confirmed           *bool     `json:"confirmed"`
}

func (ub *UpdateBooking) Validate(validate *validator.Validate) error {
	ub.FoodItem = core.CleanString(ub.FoodItem)
	return validate.Struct(ub)
}

// BookingFilter narrows booking listings; zero-valued fields are ignored.
type BookingFilter struct {
	UserID string
}
