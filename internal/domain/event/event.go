package event

import (
	"fmt"
	"time"
)

// DateLayout is the only date format the persistence file and the display string use.
const DateLayout = "2006-01-02"

// Event is a named, dated activity with a fixed seat capacity.
// 0 <= reserved <= capacity holds for every value built through New.
type Event struct {
	name     string
	date     time.Time
	capacity int
	reserved int
}

type CreateEventRequest struct {
	Name     string    `validate:"required,max=200"`
	Date     time.Time `validate:"required"`
	Capacity int       `validate:"required,min=1"`
}

// New never rejects its input: a negative capacity becomes 0 and reserved is
// clamped into [0, capacity]. Loading from disk relies on this to accept stale
// or hand-edited lines.
func New(name string, date time.Time, capacity, reserved int) *Event {
	capacity = max(0, capacity)
	reserved = min(max(0, reserved), capacity)

	return &Event{
		name:     name,
		date:     calendarDay(date),
		capacity: capacity,
		reserved: reserved,
	}
}

func (e *Event) Name() string {
	return e.name
}

func (e *Event) Date() time.Time {
	return e.date
}

func (e *Event) Capacity() int {
	return e.capacity
}

func (e *Event) Reserved() int {
	return e.reserved
}

// Free returns the number of seats still available.
func (e *Event) Free() int {
	return e.capacity - e.reserved
}

// Reserve takes count seats. It fails without touching the event when count
// is not positive or exceeds the free seats.
func (e *Event) Reserve(count int) error {
	if count <= 0 {
		return ErrInvalidCount
	}

	if count > e.Free() {
		return ErrInsufficientSeats
	}

	e.reserved += count

	return nil
}

// Cancel gives back count previously reserved seats.
func (e *Event) Cancel(count int) error {
	if count <= 0 {
		return ErrInvalidCount
	}

	if count > e.reserved {
		return ErrNotEnoughReserved
	}

	e.reserved -= count

	return nil
}

func (e *Event) String() string {
	return fmt.Sprintf("%s | %s | Miejsca: %d | Zarezerwowane: %d | Wolne: %d",
		e.name, e.date.Format(DateLayout), e.capacity, e.reserved, e.Free())
}

// calendarDay drops the clock part so two events on the same day compare equal
// regardless of how their date was produced.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
