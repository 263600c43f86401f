package inmemrepos

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/manumittu/unitracker/core/canteen"
)

type CanteenRepository struct {
	mu       sync.RWMutex
	menu     []canteen.MenuItem
	bookings []canteen.Booking
}

var _ canteen.Repository = (*CanteenRepository)(nil) // interface compliance check

func NewCanteenRepository() *CanteenRepository {
	return &CanteenRepository{}
}

func (repo *CanteenRepository) CreateMenuItem(ctx context.Context, item canteen.MenuItem) (canteen.MenuItem, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	item.ID = uuid.New().String()
	repo.menu = append(repo.menu, item)
	return item, nil
}

func (repo *CanteenRepository) QueryMenu(ctx context.Context) ([]canteen.MenuItem, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	items := make([]canteen.MenuItem, len(repo.menu))
	copy(items, repo.menu)
	sort.Slice(items, func(i, j int) bool {
		if items[i].Category != items[j].Category {
			return items[i].Category < items[j].Category
		}
		return items[i].ItemName < items[j].ItemName
	})
	return items, nil
}

func (repo *CanteenRepository) GetMenuItemByID(ctx context.Context, id string) (canteen.MenuItem, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, item := range repo.menu {
		if item.ID == id {
			return item, nil
		}
	}
	return canteen.MenuItem{}, canteen.ErrMenuItemNotFound
}

func (repo *CanteenRepository) UpdateMenuItem(ctx context.Context, item canteen.MenuItem) (canteen.MenuItem, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for i, existing := range repo.menu {
		if existing.ID == item.ID {
			repo.menu[i] = item
			return item, nil
		}
	}
	return canteen.MenuItem{}, canteen.ErrMenuItemNotFound
}

func (repo *CanteenRepository) DeleteMenuItem(ctx context.Context, id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for i, existing := range repo.menu {
		if existing.ID == id {
			repo.menu = append(repo.menu[:i], repo.menu[i+1:]...)
			return nil
		}
	}
	return canteen.ErrMenuItemNotFound
}

func (repo *CanteenRepository) CreateBooking(ctx context.Context, bk canteen.Booking) (canteen.Booking, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	bk.ID = uuid.New().String()
	repo.bookings = append(repo.bookings, bk)
	return bk, nil
}

func (repo *CanteenRepository) FilterBookings(ctx context.Context, filter canteen.BookingFilter) ([]canteen.Booking, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	bookings := make([]canteen.Booking, 0, len(repo.bookings))
	for i := len(repo.bookings) - 1; i >= 0; i-- { // newest first
		bk := repo.bookings[i]
		if filter.UserID != "" && bk.UserID != filter.UserID {
			continue
		}
		bookings = append(bookings, bk)
	}
	return bookings, nil
}

func (repo *CanteenRepository) GetBookingByID(ctx context.Context, id string) (canteen.Booking, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, bk := range repo.bookings {
		if bk.ID == id {
			return bk, nil
		}
	}
	return canteen.Booking{}, canteen.ErrBookingNotFound
}

func (repo *CanteenRepository) UpdateBooking(ctx context.Context, bk canteen.Booking) (canteen.Booking, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for i, existing := range repo.bookings {
		if existing.ID == bk.ID {
			repo.bookings[i] = bk
			return bk, nil
		}
	}
	return canteen.Booking{}, canteen.ErrBookingNotFound
}

func (repo *CanteenRepository) DeleteBooking(ctx context.Context, id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for i, existing := range repo.bookings {
		if existing.ID == id {
			repo.bookings = append(repo.bookings[:i], repo.bookings[i+1:]...)
			return nil
		}
	}
	return canteen.ErrBookingNotFound
}
