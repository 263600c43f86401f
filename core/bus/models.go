package bus

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/manumittu/unitracker/core"
)

// Booking statuses
const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

type Route struct {
	ID             string    `json:"id"`
	RouteName      string    `json:"routeName"`
	From           string    `json:"from"`
	To             string    `json:"to"`
	DepartureTime  string    `json:"departureTime"`
	AvailableSeats int       `json:"availableSeats"`
	Fare           float64   `json:"fare"`
	CreatedAt      time.Time `json:"created_at"` // UTC
	UpdatedAt      time.Time `json:"updated_at"` // UTC
}

type NewRoute struct {
	RouteName      string  `json:"routeName" validate:"required"`
	From           string  `json:"from" validate:"required"`
	To             string  `json:"to" validate:"required"`
	DepartureTime  string  `json:"departureTime" validate:"required"`
	AvailableSeats int     `json:"availableSeats" validate:"min=0"`
	Fare           float64 `json:"fare" validate:"min=0"`
}

func (nr *NewRoute) Validate(validate *validator.Validate) error {
	nr.RouteName = core.CleanString(nr.RouteName)
	nr.From = core.CleanString(nr.From)
	nr.To = core.CleanString(nr.To)
	nr.DepartureTime = core.CleanString(nr.DepartureTime)
	return validate.Struct(nr)
}

type Booking struct {
	ID          string    `json:"id"`
	RouteID     string    `json:"route_id"`
	UserID      string    `json:"user_id"`
	Date        time.Time `json:"date"`
	SeatsBooked int       `json:"seatsBooked"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

type NewBooking struct {
	RouteID     string    `json:"route" validate:"required"`
	Date        time.Time `json:"date" validate:"required"`
	SeatsBooked int       `json:"seatsBooked" validate:"omitempty,min=1"`
}

func (nb *NewBooking) Validate(validate *validator.Validate) error {
	if nb.SeatsBooked == 0 {
		nb.SeatsBooked = 1
	}
	return validate.Struct(nb)
}

// BookingFilter narrows booking listings; zero-valued fields are ignored.
type BookingFilter struct {
	UserID string
	Status string
}
