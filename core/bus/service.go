package bus

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/manumittu/unitracker/core"
	"github.com/manumittu/unitracker/core/report"
)

var (
	ErrRouteNotFound   = errors.New("route not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrNotEnoughSeats  = errors.New("not enough seats available")
)

type Repository interface {
	CreateRoute(ctx context.Context, rt Route) (Route, error)
	QueryAllRoutes(ctx context.Context) ([]Route, error)
	GetRouteByID(ctx context.Context, id string) (Route, error)
	UpdateRoute(ctx context.Context, rt Route) (Route, error)
	DeleteRoute(ctx context.Context, id string) error

	// TakeSeats atomically decrements a route's available seats, failing
	// with ErrNotEnoughSeats when fewer than `seats` remain. The check and
	// the decrement happen as one operation so concurrent bookings cannot
	// oversell the route.
	TakeSeats(ctx context.Context, routeID string, seats int) error
	// RestoreSeats atomically gives seats back after a cancellation.
	RestoreSeats(ctx context.Context, routeID string, seats int) error

	CreateBooking(ctx context.Context, bk Booking) (Booking, error)
	// FilterBookings returns bookings matching the filter, newest first.
	FilterBookings(ctx context.Context, filter BookingFilter) ([]Booking, error)
	GetBookingByID(ctx context.Context, id string) (Booking, error)
	UpdateBooking(ctx context.Context, bk Booking) (Booking, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) CreateRoute(ctx context.Context, nr NewRoute) (Route, error) {
	now := time.Now().UTC()
	return svc.repo.CreateRoute(ctx, Route{
		RouteName:      nr.RouteName,
		From:           nr.From,
		To:             nr.To,
		DepartureTime:  nr.DepartureTime,
		AvailableSeats: nr.AvailableSeats,
		Fare:           nr.Fare,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
}

func (svc *Service) QueryAllRoutes(ctx context.Context) ([]Route, error) {
	return svc.repo.QueryAllRoutes(ctx)
}

func (svc *Service) GetRouteByID(ctx context.Context, id string) (Route, error) {
	return svc.repo.GetRouteByID(ctx, id)
}

func (svc *Service) UpdateRoute(ctx context.Context, orig Route, nr NewRoute) (Route, error) {
	orig.RouteName = nr.RouteName
	orig.From = nr.From
	orig.To = nr.To
	orig.DepartureTime = nr.DepartureTime
	orig.AvailableSeats = nr.AvailableSeats
	orig.Fare = nr.Fare
	orig.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateRoute(ctx, orig)
}

func (svc *Service) DeleteRoute(ctx context.Context, id string) error {
	return svc.repo.DeleteRoute(ctx, id)
}

// Book reserves seats on a route for a user. Seats are taken with an atomic
// conditional decrement before the booking row is written; if the write then
// fails the seats are handed back.
func (svc *Service) Book(ctx context.Context, userID string, nb NewBooking) (Booking, error) {
	if err := svc.repo.TakeSeats(ctx, nb.RouteID, nb.SeatsBooked); err != nil {
		if errors.Cause(err) == ErrNotEnoughSeats {
			return Booking{}, core.NewValidationError(err, core.FieldError{Field: "seatsBooked", Error: err.Error()})
		}
		return Booking{}, err
	}

	now := time.Now().UTC()
	bk, err := svc.repo.CreateBooking(ctx, Booking{
		RouteID:     nb.RouteID,
		UserID:      userID,
		Date:        nb.Date,
		SeatsBooked: nb.SeatsBooked,
		Status:      StatusConfirmed,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		if rerr := svc.repo.RestoreSeats(ctx, nb.RouteID, nb.SeatsBooked); rerr != nil {
			return Booking{}, errors.Wrap(err, "restoring seats after failed booking: "+rerr.Error())
		}
		return Booking{}, err
	}
	return bk, nil
}

func (svc *Service) FilterBookings(ctx context.Context, filter BookingFilter) ([]Booking, error) {
	return svc.repo.FilterBookings(ctx, filter)
}

func (svc *Service) GetBookingByID(ctx context.Context, id string) (Booking, error) {
	return svc.repo.GetBookingByID(ctx, id)
}

// Cancel marks a booking cancelled and restores its seats to the route.
// Cancelling twice fails.
func (svc *Service) Cancel(ctx context.Context, bk Booking) error {
	if bk.Status == StatusCancelled {
		return core.NewValidationError(errors.New("booking already cancelled"))
	}

	bk.Status = StatusCancelled
	bk.UpdatedAt = time.Now().UTC()
	if _, err := svc.repo.UpdateBooking(ctx, bk); err != nil {
		return err
	}
	if err := svc.repo.RestoreSeats(ctx, bk.RouteID, bk.SeatsBooked); err != nil {
		// no seats to give back when the route was deleted meanwhile
		if errors.Cause(err) == ErrRouteNotFound {
			return nil
		}
		return err
	}
	return nil
}

// Report returns the top routes by confirmed seats booked, keyed by route
// name. Ties keep query order.
func (svc *Service) Report(ctx context.Context, topN int) ([]report.Group, error) {
	bookings, err := svc.repo.FilterBookings(ctx, BookingFilter{Status: StatusConfirmed})
	if err != nil {
		return nil, err
	}

	names := make(map[string]string) // route ID -> display name
	items := make([]report.Item, 0, len(bookings))
	for _, bk := range bookings {
		name, ok := names[bk.RouteID]
		if !ok {
			rt, err := svc.repo.GetRouteByID(ctx, bk.RouteID)
			if err != nil {
				if errors.Cause(err) == ErrRouteNotFound {
					continue // booking for a deleted route
				}
				return nil, err
			}
			name = rt.RouteName
			names[bk.RouteID] = name
		}
		items = append(items, report.Item{Key: name, Weight: float64(bk.SeatsBooked)})
	}
	return report.TopN(report.Aggregate(items), topN), nil
}
