package console_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/geocoder89/eventdesk/internal/catalog"
	"github.com/geocoder89/eventdesk/internal/console"
	"github.com/geocoder89/eventdesk/internal/domain/event"
)

var fixedNow = time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)

type session struct {
	cat  *catalog.Catalog
	file string
	out  bytes.Buffer
}

func newSession(t *testing.T) *session {
	t.Helper()

	return &session{
		cat:  catalog.New(nil, nil),
		file: filepath.Join(t.TempDir(), "events.txt"),
	}
}

func (s *session) run(t *testing.T, lines ...string) string {
	t.Helper()

	s.out.Reset()
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")

	c := console.New(s.cat, in, &s.out,
		console.WithDataFile(s.file),
		console.WithClock(func() time.Time { return fixedNow }),
	)
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	return s.out.String()
}

func mustContain(t *testing.T, out string, want ...string) {
	t.Helper()

	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Fatalf("output missing %q\n---\n%s", w, out)
		}
	}
}

func TestConsole_AddReserveCancelList(t *testing.T) {
	s := newSession(t)

	out := s.run(t,
		"1", "Concert", "2025-12-01", "100",
		"2", "concert", "30",
		"2", "Concert", "80",
		"3", "CONCERT", "30",
		"4",
		"0",
	)

	mustContain(t, out,
		"Wydarzenie dodane pomyślnie.",
		"Rezerwacja przebiegła pomyślnie.",
		"Concert | 2025-12-01 | Miejsca: 100 | Zarezerwowane: 30 | Wolne: 70",
		"Brak wystarczającej liczby miejsc.",
		"Anulowano rezerwację.",
		"Lista wydarzeń:",
		"Concert | 2025-12-01 | Miejsca: 100 | Zarezerwowane: 0 | Wolne: 100",
		"Zapisuję i kończę...",
		"Zapisano do pliku",
	)

	b, err := os.ReadFile(s.file)
	if err != nil {
		t.Fatalf("expected data file written on quit: %v", err)
	}
	if string(b) != "Concert|2025-12-01|100|0\n" {
		t.Fatalf("unexpected data file %q", b)
	}
}

func TestConsole_AddValidation(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  string
	}{
		{name: "blank name", input: []string{"1", "   "}, want: "Nazwa nie może być pusta."},
		{name: "long name", input: []string{"1", strings.Repeat("x", 201)}, want: "Nazwa może mieć najwyżej 200 znaków."},
		{name: "bad date", input: []string{"1", "Gig", "01.12.2025"}, want: "Błędny format daty. Użyj YYYY-MM-DD."},
		{name: "words around a date", input: []string{"1", "Gig", "maybe tomorrow or not"}, want: "Błędny format daty. Użyj YYYY-MM-DD."},
		{name: "non numeric capacity", input: []string{"1", "Gig", "2025-12-01", "lots"}, want: "Niepoprawna liczba miejsc."},
		{name: "zero capacity", input: []string{"1", "Gig", "2025-12-01", "0"}, want: "Niepoprawna liczba miejsc."},
		{name: "negative capacity", input: []string{"1", "Gig", "2025-12-01", "-4"}, want: "Niepoprawna liczba miejsc."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSession(t)

			out := s.run(t, append(tt.input, "0")...)

			mustContain(t, out, tt.want)
			if s.cat.Len() != 0 {
				t.Fatalf("expected no event added, got %d", s.cat.Len())
			}
		})
	}
}

func TestConsole_NaturalLanguageDate(t *testing.T) {
	s := newSession(t)

	s.run(t, "1", "Picnic", "tomorrow", "12", "0")

	e, ok := s.cat.FindByName("picnic")
	if !ok {
		t.Fatalf("expected Picnic to be added")
	}
	if got := e.Date().Format(event.DateLayout); got != "2025-06-11" {
		t.Fatalf("expected 2025-06-11, got %s", got)
	}
}

func TestConsole_SeatErrors(t *testing.T) {
	s := newSession(t)
	s.cat.Add(event.New("Gig", time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), 10, 2))

	out := s.run(t,
		"2", "Opera",
		"2", "Gig", "zero",
		"2", "Gig", "0",
		"3", "Gig", "5",
		"0",
	)

	mustContain(t, out,
		"Nie znaleziono wydarzenia o takiej nazwie.",
		"Podaj poprawną liczbę miejsc (>0).",
		"Nie można anulować więcej miejsc niż zarezerwowano.",
	)

	e, _ := s.cat.FindByName("Gig")
	if e.Reserved() != 2 {
		t.Fatalf("expected reservations untouched, got %d", e.Reserved())
	}
}

func TestConsole_ListEmptyAndUnknownOption(t *testing.T) {
	s := newSession(t)

	out := s.run(t, "4", "9", "0")

	mustContain(t, out, "Brak wydarzeń do wyświetlenia.", "Niepoprawna opcja. Spróbuj ponownie.")
}

func TestConsole_LoadMissingThenSaveAndLoad(t *testing.T) {
	s := newSession(t)

	out := s.run(t, "6", "0")
	mustContain(t, out, "nie istnieje.")

	s.cat.Add(event.New("Gig", time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), 10, 2))
	out = s.run(t, "5", "0")
	mustContain(t, out, "Zapisano do pliku '"+s.file+"'.")

	fresh := newSession(t)
	fresh.file = s.file
	out = fresh.run(t, "6", "4", "0")
	mustContain(t, out, "Pomyślnie wczytano wydarzenia z pliku.", "Gig | 2025-07-01 | Miejsca: 10 | Zarezerwowane: 2 | Wolne: 8")
}

func TestConsole_SaveFailure(t *testing.T) {
	s := newSession(t)
	s.file = filepath.Join(t.TempDir(), "missing", "events.txt")

	out := s.run(t, "5", "0")

	mustContain(t, out, "Nie udało się zapisać do pliku.")
}

func TestConsole_EOFSavesAndQuits(t *testing.T) {
	s := newSession(t)

	out := s.run(t, "1", "Concert", "2025-12-01", "5")

	mustContain(t, out, "Zapisuję i kończę...")
	if _, err := os.Stat(s.file); err != nil {
		t.Fatalf("expected data file after EOF: %v", err)
	}
}

func TestConsole_InteractiveRepeatsMenu(t *testing.T) {
	var out bytes.Buffer
	c := console.New(catalog.New(nil, nil), strings.NewReader("4\n0\n"), &out,
		console.WithDataFile(filepath.Join(t.TempDir(), "events.txt")),
		console.WithInteractive(true),
	)

	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if n := strings.Count(out.String(), "=== System rezerwacji biletów ==="); n != 2 {
		t.Fatalf("expected menu twice, got %d", n)
	}
}

func TestConsole_Preload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "events.txt")

	var out bytes.Buffer
	cat := catalog.New(nil, nil)
	c := console.New(cat, strings.NewReader(""), &out, console.WithDataFile(path))

	c.Preload()
	if out.Len() != 0 {
		t.Fatalf("expected silence for a missing file, got %q", out.String())
	}

	if err := os.WriteFile(path, []byte("Gig|2025-07-01|10|2\nnot an event\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	c.Preload()
	mustContain(t, out.String(), "Wczytano wydarzenia z pliku '"+path+"'.")
	if cat.Len() != 1 {
		t.Fatalf("expected 1 event preloaded, got %d", cat.Len())
	}
}

func mustHaveSaved(t *testing.T, path string, names ...string) {
	t.Helper()

	saved := catalog.New(nil, nil)
	if err := saved.LoadFromFile(path); err != nil {
		t.Fatalf("load saved file: %v", err)
	}

	for _, name := range names {
		if _, ok := saved.FindByName(name); !ok {
			t.Fatalf("expected %q in saved file", name)
		}
	}
}

func TestConsole_VeryLongInputLineIsRejected(t *testing.T) {
	s := newSession(t)

	out := s.run(t,
		"1", "Concert", "2025-12-01", "100",
		"1", strings.Repeat("x", 70000),
		"0",
	)

	mustContain(t, out, "Nazwa może mieć najwyżej 200 znaków.", "Zapisuję i kończę...")
	if got := len(s.cat.List()); got != 1 {
		t.Fatalf("expected 1 event, got %d", got)
	}
	mustHaveSaved(t, s.file, "Concert")
}

func TestConsole_ReadErrorSavesBeforeReturning(t *testing.T) {
	errRead := errors.New("terminal gone")
	file := filepath.Join(t.TempDir(), "events.txt")
	in := io.MultiReader(
		strings.NewReader("1\nConcert\n2025-12-01\n100\n"),
		iotest.ErrReader(errRead),
	)

	var out bytes.Buffer
	c := console.New(catalog.New(nil, nil), in, &out, console.WithDataFile(file))

	if err := c.Run(context.Background()); !errors.Is(err, errRead) {
		t.Fatalf("expected %v, got %v", errRead, err)
	}

	mustContain(t, out.String(), "Wydarzenie dodane pomyślnie.", "Zapisuję i kończę...")
	mustHaveSaved(t, file, "Concert")
}

func TestConsole_CancelledContextSaves(t *testing.T) {
	file := filepath.Join(t.TempDir(), "events.txt")
	cat := catalog.New(nil, nil)
	cat.Add(event.New("Concert", time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), 100, 0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	c := console.New(cat, strings.NewReader("4\n"), &out, console.WithDataFile(file))

	if err := c.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	if strings.Contains(out.String(), "Lista wydarzeń:") {
		t.Fatalf("command ran after cancellation\n%s", out.String())
	}
	mustContain(t, out.String(), "Zapisuję i kończę...")
	mustHaveSaved(t, file, "Concert")
}

func TestConsole_InterruptWhileWaitingForInput(t *testing.T) {
	file := filepath.Join(t.TempDir(), "events.txt")
	cat := catalog.New(nil, nil)
	cat.Add(event.New("Concert", time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), 100, 0))

	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var out bytes.Buffer
	c := console.New(cat, pr, &out, console.WithDataFile(file))

	if err := c.Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context.DeadlineExceeded, got %v", err)
	}

	mustContain(t, out.String(), "Zapisuję i kończę...")
	mustHaveSaved(t, file, "Concert")
}
