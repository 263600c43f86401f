package pgrepos

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/manumittu/unitracker/core/timetable"
)

type timetableRepository struct {
	db *sqlx.DB
}

var _ timetable.Repository = (*timetableRepository)(nil) // interface compliance check

func NewTimetableRepository(db *sqlx.DB) *timetableRepository {
	return &timetableRepository{db: db}
}

type timetableRow struct {
	ID        int         `db:"id"`
	TimeSlots string      `db:"time_slots"` // jsonb
	Schedule  string      `db:"schedule"`   // jsonb
	CreatedBy null.String `db:"created_by"`
	CreatedAt time.Time   `db:"created_at"`
	UpdatedAt time.Time   `db:"updated_at"`
}

func (r timetableRow) toDomain() (timetable.Timetable, error) {
	tt := timetable.Timetable{
		CreatedBy: r.CreatedBy.String,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if err := json.Unmarshal([]byte(r.TimeSlots), &tt.TimeSlots); err != nil {
		return timetable.Timetable{}, errors.Wrap(err, "decoding time slots")
	}
	if err := json.Unmarshal([]byte(r.Schedule), &tt.Schedule); err != nil {
		return timetable.Timetable{}, errors.Wrap(err, "decoding schedule")
	}
	return tt, nil
}

func timetableToRow(tt timetable.Timetable) (timetableRow, error) {
	slots, err := json.Marshal(tt.TimeSlots)
	if err != nil {
		return timetableRow{}, errors.Wrap(err, "encoding time slots")
	}
	schedule, err := json.Marshal(tt.Schedule)
	if err != nil {
		return timetableRow{}, errors.Wrap(err, "encoding schedule")
	}
	return timetableRow{
		ID:        1,
		TimeSlots: string(slots),
		Schedule:  string(schedule),
		CreatedBy: null.NewString(tt.CreatedBy, tt.CreatedBy != ""),
		CreatedAt: tt.CreatedAt,
		UpdatedAt: tt.UpdatedAt,
	}, nil
}

func (repo timetableRepository) GetTimetable(ctx context.Context) (timetable.Timetable, error) {
	var row timetableRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM timetable WHERE id = 1`); err != nil {
		return timetable.Timetable{}, trapNoRowsErr(err, timetable.ErrNotFound, "finding timetable")
	}
	return row.toDomain()
}

// SaveTimetable upserts the single timetable row in place.
func (repo timetableRepository) SaveTimetable(ctx context.Context, tt timetable.Timetable) (timetable.Timetable, error) {
	row, err := timetableToRow(tt)
	if err != nil {
		return timetable.Timetable{}, err
	}
	_, err = repo.db.NamedExecContext(ctx, `
		INSERT INTO timetable (id, time_slots, schedule, created_by, created_at, updated_at)
		VALUES (:id, :time_slots, :schedule, :created_by, :created_at, :updated_at)
		ON CONFLICT (id) DO UPDATE
		SET time_slots = EXCLUDED.time_slots, schedule = EXCLUDED.schedule,
		    created_by = EXCLUDED.created_by, updated_at = EXCLUDED.updated_at`, row)
	if err != nil {
		return timetable.Timetable{}, errors.Wrap(err, "saving timetable")
	}
	return tt, nil
}

func (repo timetableRepository) DeleteTimetable(ctx context.Context) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM timetable WHERE id = 1`)
	if err != nil {
		return errors.Wrap(err, "deleting timetable")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return timetable.ErrNotFound
	}
	return nil
}
