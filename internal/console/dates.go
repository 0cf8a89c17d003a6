package console

import (
	"errors"
	"strings"
	"time"

	"github.com/geocoder89/eventdesk/internal/domain/event"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

var errUnrecognizedDate = errors.New("unrecognized date")

// dateParser accepts YYYY-MM-DD and, failing that, a short English phrase
// ("tomorrow", "next friday") resolved against now.
type dateParser struct {
	when *when.Parser
	now  func() time.Time
}

func newDateParser(now func() time.Time) *dateParser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)

	return &dateParser{when: w, now: now}
}

func (p *dateParser) parse(input string) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, errUnrecognizedDate
	}

	if t, err := time.Parse(event.DateLayout, input); err == nil {
		return t, nil
	}

	r, err := p.when.Parse(input, p.now())
	if err != nil {
		return time.Time{}, err
	}

	// the phrase must be the whole input, not a date buried in other words
	if r == nil || !strings.EqualFold(strings.TrimSpace(r.Text), input) {
		return time.Time{}, errUnrecognizedDate
	}

	return r.Time, nil
}
