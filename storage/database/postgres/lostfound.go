package pgrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/manumittu/unitracker/core/lostfound"
)

type lostFoundRepository struct {
	db *sqlx.DB
}

var _ lostfound.Repository = (*lostFoundRepository)(nil) // interface compliance check

func NewLostFoundRepository(db *sqlx.DB) *lostFoundRepository {
	return &lostFoundRepository{db: db}
}

type lostFoundRow struct {
	ID          string    `db:"id"`
	Type        string    `db:"type"`
	ItemName    string    `db:"item_name"`
	Description string    `db:"description"`
	Location    string    `db:"location"`
	Date        time.Time `db:"date"`
	ContactInfo string    `db:"contact_info"`
	Status      string    `db:"status"`
	PostedBy    string    `db:"posted_by"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r lostFoundRow) toDomain() lostfound.Item {
	return lostfound.Item(r)
}

func (repo lostFoundRepository) CreateItem(ctx context.Context, it lostfound.Item) (lostfound.Item, error) {
	it.ID = uuid.New().String()
	row := lostFoundRow(it)
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO lost_found_item (id, type, item_name, description, location, date, contact_info,
		                             status, posted_by, created_at, updated_at)
		VALUES (:id, :type, :item_name, :description, :location, :date, :contact_info,
		        :status, :posted_by, :created_at, :updated_at)`, row)
	if err != nil {
		return lostfound.Item{}, errors.Wrap(err, "inserting lost/found item")
	}
	return it, nil
}

func (repo lostFoundRepository) QueryAllItems(ctx context.Context) ([]lostfound.Item, error) {
	var rows []lostFoundRow
	err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM lost_found_item ORDER BY created_at DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "querying lost/found items")
	}

	items := make([]lostfound.Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toDomain())
	}
	return items, nil
}

func (repo lostFoundRepository) GetItemByID(ctx context.Context, id string) (lostfound.Item, error) {
	if _, err := uuid.Parse(id); err != nil {
		return lostfound.Item{}, lostfound.ErrNotFound
	}
	var row lostFoundRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM lost_found_item WHERE id = $1`, id); err != nil {
		return lostfound.Item{}, trapNoRowsErr(err, lostfound.ErrNotFound, "finding lost/found item by ID")
	}
	return row.toDomain(), nil
}

func (repo lostFoundRepository) UpdateItem(ctx context.Context, it lostfound.Item) (lostfound.Item, error) {
	row := lostFoundRow(it)
	res, err := repo.db.NamedExecContext(ctx, `
		UPDATE lost_found_item
		SET item_name = :item_name, description = :description, location = :location,
		    date = :date, contact_info = :contact_info, status = :status, updated_at = :updated_at
		WHERE id = :id`, row)
	if err != nil {
		return lostfound.Item{}, errors.Wrap(err, "updating lost/found item")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return lostfound.Item{}, lostfound.ErrNotFound
	}
	return it, nil
}

func (repo lostFoundRepository) DeleteItem(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return lostfound.ErrNotFound
	}
	res, err := repo.db.ExecContext(ctx, `DELETE FROM lost_found_item WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting lost/found item")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return lostfound.ErrNotFound
	}
	return nil
}
