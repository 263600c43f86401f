package pgrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/manumittu/unitracker/core/bus"
)

type busRepository struct {
	db *sqlx.DB
}

var _ bus.Repository = (*busRepository)(nil) // interface compliance check

func NewBusRepository(db *sqlx.DB) *busRepository {
	return &busRepository{db: db}
}

type routeRow struct {
	ID             string    `db:"id"`
	RouteName      string    `db:"route_name"`
	From           string    `db:"from_stop"`
	To             string    `db:"to_stop"`
	DepartureTime  string    `db:"departure_time"`
	AvailableSeats int       `db:"available_seats"`
	Fare           float64   `db:"fare"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (r routeRow) toDomain() bus.Route {
	return bus.Route(r)
}

type busBookingRow struct {
	ID          string    `db:"id"`
	RouteID     string    `db:"route_id"`
	UserID      string    `db:"user_id"`
	Date        time.Time `db:"date"`
	SeatsBooked int       `db:"seats_booked"`
	Status      string    `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r busBookingRow) toDomain() bus.Booking {
	return bus.Booking(r)
}

func (repo busRepository) CreateRoute(ctx context.Context, rt bus.Route) (bus.Route, error) {
	rt.ID = uuid.New().String()
	row := routeRow(rt)
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO bus_route (id, route_name, from_stop, to_stop, departure_time, available_seats, fare, created_at, updated_at)
		VALUES (:id, :route_name, :from_stop, :to_stop, :departure_time, :available_seats, :fare, :created_at, :updated_at)`, row)
	if err != nil {
		return bus.Route{}, errors.Wrap(err, "inserting route")
	}
	return rt, nil
}

func (repo busRepository) QueryAllRoutes(ctx context.Context) ([]bus.Route, error) {
	var rows []routeRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM bus_route ORDER BY route_name`); err != nil {
		return nil, errors.Wrap(err, "querying routes")
	}

	routes := make([]bus.Route, 0, len(rows))
	for _, row := range rows {
		routes = append(routes, row.toDomain())
	}
	return routes, nil
}

func (repo busRepository) GetRouteByID(ctx context.Context, id string) (bus.Route, error) {
	if _, err := uuid.Parse(id); err != nil {
		return bus.Route{}, bus.ErrRouteNotFound
	}
	var row routeRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM bus_route WHERE id = $1`, id); err != nil {
		return bus.Route{}, trapNoRowsErr(err, bus.ErrRouteNotFound, "finding route by ID")
	}
	return row.toDomain(), nil
}

func (repo busRepository) UpdateRoute(ctx context.Context, rt bus.Route) (bus.Route, error) {
	row := routeRow(rt)
	res, err := repo.db.NamedExecContext(ctx, `
		UPDATE bus_route
		SET route_name = :route_name, from_stop = :from_stop, to_stop = :to_stop,
		    departure_time = :departure_time, available_seats = :available_seats,
		    fare = :fare, updated_at = :updated_at
		WHERE id = :id`, row)
	if err != nil {
		return bus.Route{}, errors.Wrap(err, "updating route")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return bus.Route{}, bus.ErrRouteNotFound
	}
	return rt, nil
}

func (repo busRepository) DeleteRoute(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return bus.ErrRouteNotFound
	}
	res, err := repo.db.ExecContext(ctx, `DELETE FROM bus_route WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting route")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return bus.ErrRouteNotFound
	}
	return nil
}

// TakeSeats decrements the seat count in a single conditional UPDATE so two
// concurrent bookings can never take the same seats.
func (repo busRepository) TakeSeats(ctx context.Context, routeID string, seats int) error {
	if _, err := uuid.Parse(routeID); err != nil {
		return bus.ErrRouteNotFound
	}
	res, err := repo.db.ExecContext(ctx, `
		UPDATE bus_route
		SET available_seats = available_seats - $1, updated_at = now()
		WHERE id = $2 AND available_seats >= $1`, seats, routeID)
	if err != nil {
		return errors.Wrap(err, "taking seats")
	}
	cnt, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "taking seats")
	}
	if cnt == 0 {
		// Either the route is gone or it has too few seats left.
		if _, err := repo.GetRouteByID(ctx, routeID); err != nil {
			return err
		}
		return bus.ErrNotEnoughSeats
	}
	return nil
}

func (repo busRepository) RestoreSeats(ctx context.Context, routeID string, seats int) error {
	if _, err := uuid.Parse(routeID); err != nil {
		return bus.ErrRouteNotFound
	}
	res, err := repo.db.ExecContext(ctx, `
		UPDATE bus_route
		SET available_seats = available_seats + $1, updated_at = now()
		WHERE id = $2`, seats, routeID)
	if err != nil {
		return errors.Wrap(err, "restoring seats")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return bus.ErrRouteNotFound
	}
	return nil
}

func (repo busRepository) CreateBooking(ctx context.Context, bk bus.Booking) (bus.Booking, error) {
	bk.ID = uuid.New().String()
	row := busBookingRow(bk)
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO bus_booking (id, route_id, user_id, date, seats_booked, status, created_at, updated_at)
		VALUES (:id, :route_id, :user_id, :date, :seats_booked, :status, :created_at, :updated_at)`, row)
	if err != nil {
		return bus.Booking{}, errors.Wrap(err, "inserting bus booking")
	}
	return bk, nil
}

func (repo busRepository) FilterBookings(ctx context.Context, filter bus.BookingFilter) ([]bus.Booking, error) {
	query := `SELECT * FROM bus_booking`
	var clauses []string
	var args []interface{}
	if filter.UserID != "" {
		args = append(args, filter.UserID)
		clauses = append(clauses, `user_id = $1`)
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		if len(args) == 1 {
			clauses = append(clauses, `status = $1`)
		} else {
			clauses = append(clauses, `status = $2`)
		}
	}
	for i, clause := range clauses {
		if i == 0 {
			query += ` WHERE ` + clause
		} else {
			query += ` AND ` + clause
		}
	}
	query += ` ORDER BY created_at DESC`

	var rows []busBookingRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying bus bookings")
	}

	bookings := make([]bus.Booking, 0, len(rows))
	for _, row := range rows {
		bookings = append(bookings, row.toDomain())
	}
	return bookings, nil
}

func (repo busRepository) GetBookingByID(ctx context.Context, id string) (bus.Booking, error) {
	if _, err := uuid.Parse(id); err != nil {
		return bus.Booking{}, bus.ErrBookingNotFound
	}
	var row busBookingRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM bus_booking WHERE id = $1`, id); err != nil {
		return bus.Booking{}, trapNoRowsErr(err, bus.ErrBookingNotFound, "finding bus booking by ID")
	}
	return row.toDomain(), nil
}

func (repo busRepository) UpdateBooking(ctx context.Context, bk bus.Booking) (bus.Booking, error) {
	row := busBookingRow(bk)
	res, err := repo.db.NamedExecContext(ctx, `
		UPDATE bus_booking
		SET date = :date, seats_booked = :seats_booked, status = :status, updated_at = :updated_at
		WHERE id = :id`, row)
	if err != nil {
		return bus.Booking{}, errors.Wrap(err, "updating bus booking")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return bus.Booking{}, bus.ErrBookingNotFound
	}
	return bk, nil
}
