package catalog

import (
	"cmp"
	"errors"
	"log/slog"
	"slices"
	"strings"

	"github.com/geocoder89/eventdesk/internal/domain/event"
	"github.com/geocoder89/eventdesk/internal/observability"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var ErrEventNotFound = errors.New("event not found")

// Catalog is the in-memory set of events for the process lifetime. It is not
// safe for concurrent use; the console owns it exclusively.
type Catalog struct {
	items []*event.Event // insertion order

	fold    cases.Caser
	collate *collate.Collator

	log  *slog.Logger
	prom *observability.Prom
}

type Option func(*Catalog)

// WithCollation orders names with the collation rules of tag.
func WithCollation(tag language.Tag) Option {
	return func(c *Catalog) {
		c.collate = collate.New(tag)
	}
}

// constructor function
func New(log *slog.Logger, prom *observability.Prom, opts ...Option) *Catalog {
	if log == nil {
		log = observability.NopLogger()
	}

	c := &Catalog{
		fold:    cases.Fold(),
		collate: collate.New(language.Polish),
		log:     log,
		prom:    prom,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Add appends e as-is. Names are not deduplicated; FindByName returns the
// first one added.
func (c *Catalog) Add(e *event.Event) {
	if e == nil {
		return
	}

	c.items = append(c.items, e)
	c.setGauge()
}

// FindByName matches names case-insensitively and returns the first hit in
// insertion order. A blank name never matches.
func (c *Catalog) FindByName(name string) (*event.Event, bool) {
	if strings.TrimSpace(name) == "" {
		return nil, false
	}

	want := c.fold.String(name)

	for _, e := range c.items {
		if c.fold.String(e.Name()) == want {
			return e, true
		}
	}

	return nil, false
}

// List returns the events sorted by date, then name. The order is recomputed
// on every call; events comparing equal keep their insertion order.
func (c *Catalog) List() []*event.Event {
	out := slices.Clone(c.items)

	slices.SortStableFunc(out, func(a, b *event.Event) int {
		if n := a.Date().Compare(b.Date()); n != 0 {
			return n
		}
		if n := c.collate.CompareString(a.Name(), b.Name()); n != 0 {
			return n
		}
		// collation may treat distinct names as equal; fall back to byte order
		return cmp.Compare(a.Name(), b.Name())
	})

	return out
}

// Events returns the events in insertion order, which is also the file order.
func (c *Catalog) Events() []*event.Event {
	return slices.Clone(c.items)
}

func (c *Catalog) Len() int {
	return len(c.items)
}

// Reserve looks the event up by name and reserves count seats on it. The
// event is returned whenever it was found, so callers can show its state
// after a rejected reservation too.
func (c *Catalog) Reserve(name string, count int) (*event.Event, error) {
	return c.apply("reserve", name, count, (*event.Event).Reserve)
}

// Cancel is the counterpart of Reserve.
func (c *Catalog) Cancel(name string, count int) (*event.Event, error) {
	return c.apply("cancel", name, count, (*event.Event).Cancel)
}

func (c *Catalog) apply(op, name string, count int, fn func(*event.Event, int) error) (*event.Event, error) {
	e, ok := c.FindByName(name)

	if !ok {
		c.countReservation(op, ErrEventNotFound)
		return nil, ErrEventNotFound
	}

	err := fn(e, count)
	c.countReservation(op, err)

	if err != nil {
		c.log.Debug("seat change rejected", "op", op, "event", e.Name(), "count", count, "err", err)
		return e, err
	}

	c.log.Info("seats changed", "op", op, "event", e.Name(), "count", count, "reserved", e.Reserved(), "free", e.Free())
	return e, nil
}

func (c *Catalog) countReservation(op string, err error) {
	if c.prom == nil {
		return
	}

	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, event.ErrInvalidCount):
		result = "invalid_count"
	case errors.Is(err, ErrEventNotFound):
		result = "not_found"
	default:
		result = "insufficient"
	}

	c.prom.ReservationsTotal.WithLabelValues(op, result).Inc()
}

func (c *Catalog) setGauge() {
	if c.prom != nil {
		c.prom.CatalogEvents.Set(float64(len(c.items)))
	}
}
