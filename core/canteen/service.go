package canteen

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/manumittu/unitracker/core/report"
)

var (
	ErrMenuItemNotFound = errors.New("menu item not found")
	ErrBookingNotFound  = errors.New("booking not found")
)

type Repository interface {
	CreateMenuItem(ctx context.Context, item MenuItem) (MenuItem, error)
	// QueryMenu returns items sorted by category then item name.
	QueryMenu(ctx context.Context) ([]MenuItem, error)
	GetMenuItemByID(ctx context.Context, id string) (MenuItem, error)
	UpdateMenuItem(ctx context.Context, item MenuItem) (MenuItem, error)
	DeleteMenuItem(ctx context.Context, id string) error

	CreateBooking(ctx context.Context, bk Booking) (Booking, error)
	// FilterBookings returns bookings matching the filter, newest first.
	FilterBookings(ctx context.Context, filter BookingFilter) ([]Booking, error)
	GetBookingByID(ctx context.Context, id string) (Booking, error)
	UpdateBooking(ctx context.Context, bk Booking) (Booking, error)
	DeleteBooking(ctx context.Context, id string) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) CreateMenuItem(ctx context.Context, nm NewMenuItem) (MenuItem, error) {
	now := time.Now().UTC()
	return svc.repo.CreateMenuItem(ctx, MenuItem{
		ItemName:     nm.ItemName,
		Category:     nm.Category,
		Price:        nm.Price,
		Availability: nm.Available(),
		PrepTime:     nm.PrepTime,
		ImageURL:     nm.ImageURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

func (svc *Service) QueryMenu(ctx context.Context) ([]MenuItem, error) {
	return svc.repo.QueryMenu(ctx)
}

func (svc *Service) GetMenuItemByID(ctx context.Context, id string) (MenuItem, error) {
	return svc.repo.GetMenuItemByID(ctx, id)
}

func (svc *Service) UpdateMenuItem(ctx context.Context, orig MenuItem, nm NewMenuItem) (MenuItem, error) {
	orig.ItemName = nm.ItemName
	orig.Category = nm.Category
	orig.Price = nm.Price
	orig.Availability = nm.Available()
	orig.PrepTime = nm.PrepTime
	orig.ImageURL = nm.ImageURL
	orig.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateMenuItem(ctx, orig)
}

func (svc *Service) DeleteMenuItem(ctx context.Context, id string) error {
	return svc.repo.DeleteMenuItem(ctx, id)
}

func (svc *Service) CreateBooking(ctx context.Context, userID string, nb NewBooking) (Booking, error) {
	now := time.Now().UTC()
	return svc.repo.CreateBooking(ctx, Booking{
		UserID:              userID,
		StudentID:           nb.StudentID,
		Name:                nb.Name,
		Date:                nb.Date,
		TimeSlot:            nb.TimeSlot,
		FoodItem:            nb.FoodItem,
		Quantity:            nb.Quantity,
		PaymentMode:         nb.PaymentMode,
		SpecialInstructions: nb.SpecialInstructions,
		CreatedAt:           now,
		UpdatedAt:           now,
	})
}

func (svc *Service) FilterBookings(ctx context.Context, filter BookingFilter) ([]Booking, error) {
	return svc.repo.FilterBookings(ctx, filter)
}

func (svc *Service) GetBookingByID(ctx context.Context, id string) (Booking, error) {
	return svc.repo.GetBookingByID(ctx, id)
}

func (svc *Service) UpdateBooking(ctx context.Context, orig Booking, ub UpdateBooking) (Booking, error) {
	if !ub.Date.IsZero() {
		orig.Date = ub.Date
	}
	if ub.TimeSlot != "" {
		orig.TimeSlot = ub.TimeSlot
	}
	if ub.FoodItem != "" {
		orig.FoodItem = ub.FoodItem
	}
	if ub.Quantity != 0 {
		orig.Quantity = ub.Quantity
	}
	if ub.PaymentMode != "" {
		orig.PaymentMode = ub.PaymentMode
	}
	if ub.SpecialInstructions != "" {
		orig.SpecialInstructions = ub.SpecialInstructions
	}
	if ub.Confirmed != nil {
		orig.Confirmed = *ub.Confirmed
	}
	orig.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateBooking(ctx, orig)
}

func (svc *Service) DeleteBooking(ctx context.Context, id string) error {
	return svc.repo.DeleteBooking(ctx, id)
}

// Report aggregates all bookings by food item: how many bookings and how many
// portions per item, in query order.
func (svc *Service) Report(ctx context.Context) ([]report.Group, error) {
	bookings, err := svc.repo.FilterBookings(ctx, BookingFilter{})
	if err != nil {
		return nil, err
	}
	items := make([]report.Item, 0, len(bookings))
	for _, bk := range bookings {
		items = append(items, report.Item{Key: bk.FoodItem, Weight: float64(bk.Quantity)})
	}
	return report.Aggregate(items), nil
}
