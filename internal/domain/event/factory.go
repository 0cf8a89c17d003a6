package event

import "strings"

// NewFromCreateRequest builds a fresh event with no reservations from validated input.
func NewFromCreateRequest(req CreateEventRequest) *Event {
	return New(strings.TrimSpace(req.Name), req.Date, req.Capacity, 0)
}
