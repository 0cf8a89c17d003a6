package console

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/go-playground/validator/v10"
)

const (
	capacityMessage = "Niepoprawna liczba miejsc. Musi być liczba naturalna > 0."
	countMessage    = "Podaj poprawną liczbę miejsc (>0)."
)

// validationMessages turns validator errors on event.CreateEventRequest into
// one user facing line per failed field.
func validationMessages(err error) []string {
	var validationErrors validator.ValidationErrors

	if !errors.As(err, &validationErrors) {
		return []string{"Niepoprawne dane: " + err.Error()}
	}

	out := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		out = append(out, fieldMessage(fe.Field(), fe.Tag(), fe.Param()))
	}

	return out
}

func fieldMessage(field, rule, param string) string {
	switch field {
	case "Name":
		switch rule {
		case "required":
			return "Nazwa nie może być pusta."
		case "max":
			return "Nazwa może mieć najwyżej " + param + " znaków."
		}
	case "Date":
		return "Błędny format daty. Użyj YYYY-MM-DD."
	case "Capacity":
		return capacityMessage
	}

	if param != "" {
		return fmt.Sprintf("Pole %s: reguła %s (%s) nie jest spełniona.", field, rule, param)
	}
	return fmt.Sprintf("Pole %s: reguła %s nie jest spełniona.", field, rule)
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
