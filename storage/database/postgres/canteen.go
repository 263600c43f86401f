package pgrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/manumittu/unitracker/core/canteen"
)

type canteenRepository struct {
	db *sqlx.DB
}

var _ canteen.Repository = (*canteenRepository)(nil) // interface compliance check

func NewCanteenRepository(db *sqlx.DB) *canteenRepository {
	return &canteenRepository{db: db}
}

type menuItemRow struct {
	ID           string    `db:"id"`
	ItemName     string    `db:"item_name"`
	Category     string    `db:"category"`
	Price        float64   `db:"price"`
	Availability bool      `db:"availability"`
	PrepTime     string    `db:"prep_time"`
	ImageURL     string    `db:"image_url"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r menuItemRow) toDomain() canteen.MenuItem {
	return canteen.MenuItem(r)
}

type canteenBookingRow struct {
	ID                  string    `db:"id"`
	UserID              string    `db:"user_id"`
	StudentID           string    `db:"student_id"`
	Name                string    `db:"name"`
	Date                time.Time `db:"date"`
	TimeSlot            string    `db:"time_slot"`
	FoodItem            string    `db:"food_item"`
	Quantity            int       `db:"quantity"`
	PaymentMode         string    `db:"payment_mode"`
	SpecialInstructions string    `db:"special_instructions"`
	Confirmed           bool      `db:"confirmed"`
	CreatedAt           time.Time `db:"created_at"`
	UpdatedAt           time.Time `db:"updated_at"`
}

func (r canteenBookingRow) toDomain() canteen.Booking {
	return canteen.Booking(r)
}

func (repo canteenRepository) CreateMenuItem(ctx context.Context, item canteen.MenuItem) (canteen.MenuItem, error) {
	item.ID = uuid.New().String()
	row := menuItemRow(item)
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO menu_item (id, item_name, category, price, availability, prep_time, image_url, created_at, updated_at)
		VALUES (:id, :item_name, :category, :price, :availability, :prep_time, :image_url, :created_at, :updated_at)`, row)
	if err != nil {
		return canteen.MenuItem{}, errors.Wrap(err, "inserting menu item")
	}
	return item, nil
}

func (repo canteenRepository) QueryMenu(ctx context.Context) ([]canteen.MenuItem, error) {
	var rows []menuItemRow
	err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM menu_item ORDER BY category, item_name`)
	if err != nil {
		return nil, errors.Wrap(err, "querying menu")
	}

	items := make([]canteen.MenuItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toDomain())
	}
	return items, nil
}

func (repo canteenRepository) GetMenuItemByID(ctx context.Context, id string) (canteen.MenuItem, error) {
	if _, err := uuid.Parse(id); err != nil {
		return canteen.MenuItem{}, canteen.ErrMenuItemNotFound
	}
	var row menuItemRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM menu_item WHERE id = $1`, id); err != nil {
		return canteen.MenuItem{}, trapNoRowsErr(err, canteen.ErrMenuItemNotFound, "finding menu item by ID")
	}
	return row.toDomain(), nil
}

func (repo canteenRepository) UpdateMenuItem(ctx context.Context, item canteen.MenuItem) (canteen.MenuItem, error) {
	row := menuItemRow(item)
	res, err := repo.db.NamedExecContext(ctx, `
		UPDATE menu_item
		SET item_name = :item_name, category = :category, price = :price, availability = :availability,
		    prep_time = :prep_time, image_url = :image_url, updated_at = :updated_at
		WHERE id = :id`, row)
	if err != nil {
		return canteen.MenuItem{}, errors.Wrap(err, "updating menu item")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return canteen.MenuItem{}, canteen.ErrMenuItemNotFound
	}
	return item, nil
}

func (repo canteenRepository) DeleteMenuItem(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return canteen.ErrMenuItemNotFound
	}
	res, err := repo.db.ExecContext(ctx, `DELETE FROM menu_item WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting menu item")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return canteen.ErrMenuItemNotFound
	}
	return nil
}

func (repo canteenRepository) CreateBooking(ctx context.Context, bk canteen.Booking) (canteen.Booking, error) {
	bk.ID = uuid.New().String()
	row := canteenBookingRow(bk)
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO canteen_booking (id, user_id, student_id, name, date, time_slot, food_item,
		                             quantity, payment_mode, special_instructions, confirmed, created_at, updated_at)
		VALUES (:id, :user_id, :student_id, :name, :date, :time_slot, :food_item,
		        :quantity, :payment_mode, :special_instructions, :confirmed, :created_at, :updated_at)`, row)
	if err != nil {
		return canteen.Booking{}, errors.Wrap(err, "inserting canteen booking")
	}
	return bk, nil
}

func (repo canteenRepository) FilterBookings(ctx context.Context, filter canteen.BookingFilter) ([]canteen.Booking, error) {
	query := `SELECT * FROM canteen_booking`
	var args []interface{}
	if filter.UserID != "" {
		query += ` WHERE user_id = $1`
		args = append(args, filter.UserID)
	}
	query += ` ORDER BY created_at DESC`

	var rows []canteenBookingRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying canteen bookings")
	}

	bookings := make([]canteen.Booking, 0, len(rows))
	for _, row := range rows {
		bookings = append(bookings, row.toDomain())
	}
	return bookings, nil
}

func (repo canteenRepository) GetBookingByID(ctx context.Context, id string) (canteen.Booking, error) {
	if _, err := uuid.Parse(id); err != nil {
		return canteen.Booking{}, canteen.ErrBookingNotFound
	}
	var row canteenBookingRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM canteen_booking WHERE id = $1`, id); err != nil {
		return canteen.Booking{}, trapNoRowsErr(err, canteen.ErrBookingNotFound, "finding canteen booking by ID")
	}
	return row.toDomain(), nil
}

func (repo canteenRepository) UpdateBooking(ctx context.Context, bk canteen.Booking) (canteen.Booking, error) {
	row := canteenBookingRow(bk)
	res, err := repo.db.NamedExecContext(ctx, `
		UPDATE canteen_booking
		SET date = :date, time_slot = :time_slot, food_item = :food_item, quantity = :quantity,
		    payment_mode = :payment_mode, special_instructions = :special_instructions,
		    confirmed = :confirmed, updated_at = :updated_at
		WHERE id = :id`, row)
	if err != nil {
		return canteen.Booking{}, errors.Wrap(err, "updating canteen booking")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return canteen.Booking{}, canteen.ErrBookingNotFound
	}
	return bk, nil
}

func (repo canteenRepository) DeleteBooking(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return canteen.ErrBookingNotFound
	}
	res, err := repo.db.ExecContext(ctx, `DELETE FROM canteen_booking WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting canteen booking")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return canteen.ErrBookingNotFound
	}
	return nil
}
