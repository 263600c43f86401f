package timetable

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/manumittu/unitracker/core"
)

// The timetable is a fixed Monday-Friday grid keyed by period label. Several
// shapes existed historically; this is the canonical one: a day->slot->Cell
// map plus an optional custom period-label list.
var (
	Days = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

	DefaultTimeSlots = []string{
		"9:00-10:00", "10:00-11:00", "11:00-12:00", "12:00-1:00", "1:00-2:00", "2:00-3:00", "3:00-4:00",
	}

	lunchSlot = "12:00-1:00"
)

type Cell struct {
	Subject string `json:"subject"`
	Teacher string `json:"teacher"`
	Room    string `json:"room"`
	IsBreak bool   `json:"isBreak"`
}

type Timetable struct {
	TimeSlots []string                   `json:"timeSlots"`
	Schedule  map[string]map[string]Cell `json:"schedule"`
	CreatedBy string                     `json:"created_by,omitempty"`
	CreatedAt time.Time                  `json:"created_at"` // UTC
	UpdatedAt time.Time                  `json:"updated_at"` // UTC
}

// Default returns the empty grid served before any timetable has been saved:
// all cells blank except the lunch break.
func Default() Timetable {
	schedule := make(map[string]map[string]Cell, len(Days))
	for _, day := range Days {
		schedule[day] = make(map[string]Cell, len(DefaultTimeSlots))
		for _, slot := range DefaultTimeSlots {
			schedule[day][slot] = Cell{IsBreak: slot == lunchSlot, Subject: breakSubject(slot)}
		}
	}
	return Timetable{TimeSlots: DefaultTimeSlots, Schedule: schedule}
}

func breakSubject(slot string) string {
	if slot == lunchSlot {
		return "LUNCH BREAK"
	}
	return ""
}

// SaveTimetable is the payload accepted when saving the grid.
type SaveTimetable struct {
	TimeSlots []string                   `json:"timeSlots" validate:"omitempty,min=1,dive,required"`
	Schedule  map[string]map[string]Cell `json:"schedule" validate:"required"`
}

func (st *SaveTimetable) Validate(validate *validator.Validate) error {
	if len(st.TimeSlots) == 0 {
		st.TimeSlots = DefaultTimeSlots
	}
	if err := validate.Struct(st); err != nil {
		return err
	}

	for day := range st.Schedule {
		if !validDay(day) {
			return core.NewValidationError(
				errors.Errorf("unknown day %q", day),
				core.FieldError{Field: "schedule", Error: "days must be Monday through Friday"},
			)
		}
	}
	return nil
}

func validDay(day string) bool {
	for _, d := range Days {
		if d == day {
			return true
		}
	}
	return false
}
