package event

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	fieldSeparator  = "|"
	separatorInName = "/"
	lineFields      = 4
)

// MarshalLine encodes the event as name|YYYY-MM-DD|capacity|reserved.
// A literal | in the name is written as /, so the encoding is lossy.
func (e *Event) MarshalLine() string {
	name := strings.ReplaceAll(e.name, fieldSeparator, separatorInName)

	return strings.Join([]string{
		name,
		e.date.Format(DateLayout),
		strconv.Itoa(e.capacity),
		strconv.Itoa(e.reserved),
	}, fieldSeparator)
}

// ParseLine decodes one persisted line. Any error wraps ErrMalformedLine and
// means the line holds no event. The values go through New, so a line
// claiming more reserved seats than capacity is clamped, not rejected.
func ParseLine(line string) (*Event, error) {
	if strings.TrimSpace(line) == "" {
		return nil, fmt.Errorf("%w: blank line", ErrMalformedLine)
	}

	parts := strings.Split(line, fieldSeparator)

	if len(parts) != lineFields {
		return nil, fmt.Errorf("%w: expected %d fields, got %d", ErrMalformedLine, lineFields, len(parts))
	}

	date, err := time.Parse(DateLayout, parts[1])

	if err != nil {
		return nil, fmt.Errorf("%w: date %q", ErrMalformedLine, parts[1])
	}

	capacity, err := strconv.Atoi(strings.TrimSpace(parts[2]))

	if err != nil {
		return nil, fmt.Errorf("%w: capacity %q", ErrMalformedLine, parts[2])
	}

	reserved, err := strconv.Atoi(strings.TrimSpace(parts[3]))

	if err != nil {
		return nil, fmt.Errorf("%w: reserved %q", ErrMalformedLine, parts[3])
	}

	return New(parts[0], date, capacity, reserved), nil
}
