package api

import (
	"fmt"
	"net/http"

	"github.com/Charlesbasis/portfolio-app/internal/domain"
)

// Error: неуспешный ответ API. Через errors.Is сравнивается с ошибками domain.
type Error struct {
	Status  int
	Message string
	Fields  map[string][]string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

func (e *Error) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return domain.ErrUnauth
	case http.StatusForbidden:
		return domain.ErrForbidden
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusUnprocessableEntity:
		return domain.ErrValidation
	case http.StatusTooManyRequests:
		return domain.ErrTooManyRequests
	case http.StatusRequestEntityTooLarge:
		return domain.ErrPayloadTooLarge
	default:
		return nil
	}
}
