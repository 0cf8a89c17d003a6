// Package console is the interactive menu in front of the catalog. It parses
// and validates what the user types and renders results; all rules live in the
// domain and catalog packages.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/geocoder89/eventdesk/internal/catalog"
	"github.com/geocoder89/eventdesk/internal/domain/event"
	"github.com/geocoder89/eventdesk/internal/observability"
	"github.com/go-playground/validator/v10"
)

const DefaultDataFile = "events.txt"

type Catalog interface {
	Add(e *event.Event)
	FindByName(name string) (*event.Event, bool)
	List() []*event.Event
	Reserve(name string, count int) (*event.Event, error)
	Cancel(name string, count int) (*event.Event, error)
	SaveToFile(path string) error
	LoadFromFile(path string) error
}

type Console struct {
	catalog Catalog

	in    *bufio.Reader
	lines <-chan inputLine
	out   io.Writer

	log      *slog.Logger
	validate *validator.Validate
	dates    *dateParser

	dataFile    string
	interactive bool
}

type Option func(*Console)

func WithDataFile(path string) Option {
	return func(c *Console) {
		if path != "" {
			c.dataFile = path
		}
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(c *Console) {
		if log != nil {
			c.log = log
		}
	}
}

// WithClock sets the reference time for relative dates such as "tomorrow".
func WithClock(now func() time.Time) Option {
	return func(c *Console) {
		if now != nil {
			c.dates.now = now
		}
	}
}

// WithInteractive repeats the menu before every choice. Scripted sessions
// get it once.
func WithInteractive(on bool) Option {
	return func(c *Console) {
		c.interactive = on
	}
}

func New(cat Catalog, in io.Reader, out io.Writer, opts ...Option) *Console {
	c := &Console{
		catalog:  cat,
		in:       bufio.NewReader(in),
		out:      out,
		log:      observability.NopLogger(),
		validate: validator.New(),
		dates:    newDateParser(time.Now),
		dataFile: DefaultDataFile,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Run serves menu choices until the user quits, input ends or ctx is
// cancelled. All three save the catalog first. The returned error is an
// input failure or ctx.Err(), never a domain one.
func (c *Console) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	c.lines = readLines(c.in, done)

	if !c.interactive {
		c.printMenu()
	}

	for {
		if err := ctx.Err(); err != nil {
			return c.stop(err)
		}

		if c.interactive {
			c.printMenu()
		}

		choice, err := c.prompt(ctx, "Wybierz opcję: ")
		c.println()

		if err != nil {
			return c.stop(err)
		}

		switch strings.TrimSpace(choice) {
		case "1":
			err = c.addEvent(ctx)
		case "2":
			err = c.changeSeats(ctx, opReserve)
		case "3":
			err = c.changeSeats(ctx, opCancel)
		case "4":
			c.listEvents()
		case "5":
			c.save()
		case "6":
			c.load()
		case "0":
			c.quit()
			return nil
		default:
			c.println("Niepoprawna opcja. Spróbuj ponownie.")
		}

		if err != nil {
			return c.stop(err)
		}

		c.println()
	}
}

func (c *Console) printMenu() {
	c.println("=== System rezerwacji biletów ===")
	c.println("1. Dodaj wydarzenie")
	c.println("2. Zarezerwuj miejsca")
	c.println("3. Anuluj rezerwację")
	c.println("4. Wyświetl listę wydarzeń")
	c.println("5. Zapisz do pliku")
	c.println("6. Wczytaj z pliku")
	c.println("0. Zakończ (zapisz)")
}

func (c *Console) addEvent(ctx context.Context) error {
	var req event.CreateEventRequest

	name, err := c.prompt(ctx, "Nazwa wydarzenia: ")
	if err != nil {
		return err
	}
	req.Name = strings.TrimSpace(name)
	if !c.check(req, "Name") {
		return nil
	}

	rawDate, err := c.prompt(ctx, "Data (YYYY-MM-DD): ")
	if err != nil {
		return err
	}
	req.Date, err = c.dates.parse(rawDate)
	if err != nil {
		c.log.Debug("date rejected", "input", rawDate, "err", err)
		c.println("Błędny format daty. Użyj YYYY-MM-DD.")
		return nil
	}

	rawCapacity, err := c.prompt(ctx, "Liczba miejsc: ")
	if err != nil {
		return err
	}
	req.Capacity, err = strconv.Atoi(strings.TrimSpace(rawCapacity))
	if err != nil {
		c.println(capacityMessage)
		return nil
	}
	if !c.check(req, "Capacity") {
		return nil
	}

	e := event.NewFromCreateRequest(req)
	c.catalog.Add(e)
	c.log.Info("event added", "event", e.Name(), "date", e.Date().Format(event.DateLayout), "capacity", e.Capacity())
	c.println("Wydarzenie dodane pomyślnie.")

	return nil
}

// check validates the named fields of req and prints a line per violation.
func (c *Console) check(req event.CreateEventRequest, fields ...string) bool {
	err := c.validate.StructPartial(req, fields...)
	if err == nil {
		return true
	}

	for _, msg := range validationMessages(err) {
		c.println(msg)
	}
	return false
}

type seatOp struct {
	name     string
	question string
	success  string
	shortage string
	apply    func(Catalog, string, int) (*event.Event, error)
}

var (
	opReserve = seatOp{
		name:     "reserve",
		question: "Ile miejsc chcesz zarezerwować? ",
		success:  "Rezerwacja przebiegła pomyślnie.",
		shortage: "Brak wystarczającej liczby miejsc.",
		apply:    Catalog.Reserve,
	}
	opCancel = seatOp{
		name:     "cancel",
		question: "Ile miejsc chcesz anulować? ",
		success:  "Anulowano rezerwację.",
		shortage: "Nie można anulować więcej miejsc niż zarezerwowano.",
		apply:    Catalog.Cancel,
	}
)

func (c *Console) changeSeats(ctx context.Context, op seatOp) error {
	name, err := c.prompt(ctx, "Podaj nazwę wydarzenia: ")
	if err != nil {
		return err
	}

	e, ok := c.catalog.FindByName(name)
	if !ok {
		c.println("Nie znaleziono wydarzenia o takiej nazwie.")
		return nil
	}
	c.println(e.String())

	raw, err := c.prompt(ctx, op.question)
	if err != nil {
		return err
	}

	count, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		c.println(countMessage)
		return nil
	}

	e, err = op.apply(c.catalog, name, count)

	switch {
	case err == nil:
		c.println(op.success)
	case errors.Is(err, event.ErrInvalidCount):
		c.println(countMessage)
		return nil
	case errors.Is(err, event.ErrInsufficientSeats), errors.Is(err, event.ErrNotEnoughReserved):
		c.println(op.shortage)
	case errors.Is(err, catalog.ErrEventNotFound):
		c.println("Nie znaleziono wydarzenia o takiej nazwie.")
		return nil
	default:
		c.log.Error("seat change failed", "op", op.name, "err", err)
		return nil
	}

	c.println(e.String())
	return nil
}

func (c *Console) listEvents() {
	events := c.catalog.List()

	if len(events) == 0 {
		c.println("Brak wydarzeń do wyświetlenia.")
		return
	}

	c.println("Lista wydarzeń:")
	for _, e := range events {
		c.println(e.String())
	}
}

func (c *Console) save() {
	if err := c.catalog.SaveToFile(c.dataFile); err != nil {
		c.println("Nie udało się zapisać do pliku.")
		return
	}

	c.println(fmt.Sprintf("Zapisano do pliku '%s'.", c.dataFile))
}

func (c *Console) load() {
	err := c.catalog.LoadFromFile(c.dataFile)

	switch {
	case err == nil:
		c.println("Pomyślnie wczytano wydarzenia z pliku.")
	case isNotExist(err):
		c.println(fmt.Sprintf("Plik '%s' nie istnieje.", c.dataFile))
	default:
		c.println("Nie udało się wczytać wydarzeń z pliku.")
	}
}

// Preload loads the data file if it exists and says so. A missing file is
// the normal first run and prints nothing.
func (c *Console) Preload() {
	err := c.catalog.LoadFromFile(c.dataFile)

	switch {
	case err == nil:
		c.println(fmt.Sprintf("Wczytano wydarzenia z pliku '%s'.", c.dataFile))
	case isNotExist(err):
	default:
		c.println("Nie udało się wczytać wydarzeń z pliku.")
	}
}

func (c *Console) quit() {
	c.println("Zapisuję i kończę...")
	c.save()
}

// stop ends the session after a failed read. The catalog is saved whatever
// the cause; only io.EOF counts as a clean exit.
func (c *Console) stop(err error) error {
	if !errors.Is(err, io.EOF) {
		c.log.Warn("console input stopped", "err", err)
	}

	c.quit()

	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

type inputLine struct {
	text string
	err  error
}

// readLines feeds lines of r to the returned channel until a read fails or
// done is closed. The failing read comes last, after any text it returned.
func readLines(r *bufio.Reader, done <-chan struct{}) <-chan inputLine {
	lines := make(chan inputLine)

	go func() {
		for {
			text, err := r.ReadString('\n')
			text = strings.TrimRight(text, "\r\n")

			if err == nil || text != "" {
				select {
				case lines <- inputLine{text: text}:
				case <-done:
					return
				}
			}

			if err != nil {
				select {
				case lines <- inputLine{err: err}:
				case <-done:
				}
				return
			}
		}
	}()

	return lines
}

// prompt prints question and waits for one line. io.EOF means input is
// exhausted; ctx.Err() means the session was interrupted.
func (c *Console) prompt(ctx context.Context, question string) (string, error) {
	fmt.Fprint(c.out, question)

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case l := <-c.lines:
		return l.text, l.err
	}
}

func (c *Console) println(a ...any) {
	fmt.Fprintln(c.out, a...)
}
