package inmemrepos

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/manumittu/unitracker/core/bus"
)

type BusRepository struct {
	mu       sync.RWMutex
	routes   []bus.Route
	bookings []bus.Booking
}

var _ bus.Repository = (*BusRepository)(nil) // interface compliance check

func NewBusRepository() *BusRepository {
	return &BusRepository{}
}

func (repo *BusRepository) CreateRoute(ctx context.Context, rt bus.Route) (bus.Route, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	rt.ID = uuid.New().String()
	repo.routes = append(repo.routes, rt)
	return rt, nil
}

func (repo *BusRepository) QueryAllRoutes(ctx context.Context) ([]bus.Route, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	routes := make([]bus.Route, len(repo.routes))
	copy(routes, repo.routes)
	sort.Slice(routes, func(i, j int) bool { return routes[i].RouteName < routes[j].RouteName })
	return routes, nil
}

func (repo *BusRepository) GetRouteByID(ctx context.Context, id string) (bus.Route, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, rt := range repo.routes {
		if rt.ID == id {
			return rt, nil
		}
	}
	return bus.Route{}, bus.ErrRouteNotFound
}

func (repo *BusRepository) UpdateRoute(ctx context.Context, rt bus.Route) (bus.Route, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for i, existing := range repo.routes {
		if existing.ID == rt.ID {
			repo.routes[i] = rt
			return rt, nil
		}
	}
	return bus.Route{}, bus.ErrRouteNotFound
}

func (repo *BusRepository) DeleteRoute(ctx context.Context, id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for i, existing := range repo.routes {
		if existing.ID == id {
			repo.routes = append(repo.routes[:i], repo.routes[i+1:]...)
			return nil
		}
	}
	return bus.ErrRouteNotFound
}

// TakeSeats checks and decrements under the write lock so concurrent bookings
// cannot oversell a route.
func (repo *BusRepository) TakeSeats(ctx context.Context, routeID string, seats int) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for i, rt := range repo.routes {
		if rt.ID != routeID {
			continue
		}
		if rt.AvailableSeats < seats {
			return bus.ErrNotEnoughSeats
		}
		repo.routes[i].AvailableSeats -= seats
		return nil
	}
	return bus.ErrRouteNotFound
}

func (repo *BusRepository) RestoreSeats(ctx context.Context, routeID string, seats int) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for i, rt := range repo.routes {
		if rt.ID == routeID {
			repo.routes[i].AvailableSeats += seats
			return nil
		}
	}
	return bus.ErrRouteNotFound
}

func (repo *BusRepository) CreateBooking(ctx context.Context, bk bus.Booking) (bus.Booking, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	bk.ID = uuid.New().String()
	repo.bookings = append(repo.bookings, bk)
	return bk, nil
}

func (repo *BusRepository) FilterBookings(ctx context.Context, filter bus.BookingFilter) ([]bus.Booking, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	bookings := make([]bus.Booking, 0, len(repo.bookings))
	for i := len(repo.bookings) - 1; i >= 0; i-- { // newest first
		bk := repo.bookings[i]
		if filter.UserID != "" && bk.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && bk.Status != filter.Status {
			continue
		}
		bookings = append(bookings, bk)
	}
	return bookings, nil
}

func (repo *BusRepository) GetBookingByID(ctx context.Context, id string) (bus.Booking, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, bk := range repo.bookings {
		if bk.ID == id {
			return bk, nil
		}
	}
	return bus.Booking{}, bus.ErrBookingNotFound
}

func (repo *BusRepository) UpdateBooking(ctx context.Context, bk bus.Booking) (bus.Booking, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for i, existing := range repo.bookings {
		if existing.ID == bk.ID {
			repo.bookings[i] = bk
			return bk, nil
		}
	}
	return bus.Booking{}, bus.ErrBookingNotFound
}
