package v1

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Charlesbasis/portfolio-app/internal/domain"
	"github.com/Charlesbasis/portfolio-app/internal/transport/web/mw"
)

// MapDomainError решает HTTP-статус и тело конверта
func MapDomainError(err error) (httpStatus int, env domain.APIEnvelope) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusUnprocessableEntity, domain.FailFields(firstMessage(ve), ve.Fields)
	case errors.Is(err, domain.ErrEmailTaken):
		fields := map[string][]string{"email": {"The email has already been taken."}}
		return http.StatusUnprocessableEntity, domain.FailFields(fields["email"][0], fields)
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity, domain.Fail("The given data was invalid.")
	case errors.Is(err, domain.ErrUnauth):
		return http.StatusUnauthorized, domain.Fail("Unauthenticated.")
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, domain.Fail("Please complete onboarding first.")
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, domain.Fail("Resource not found.")
	case errors.Is(err, domain.ErrTooManyRequests):
		return http.StatusTooManyRequests, domain.Fail("Too Many Attempts.")
	case errors.Is(err, domain.ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge, domain.Fail("Payload too large.")
	default:
		// ErrConflict (slug занят и после повтора), таймауты, отмены — 500
		return http.StatusInternalServerError, domain.Fail("Server Error")
	}
}

// Первое сообщение по алфавиту полей — для поля message, как в Laravel.
func firstMessage(ve *domain.ValidationError) string {
	msg := "The given data was invalid."
	first := ""
	for field, msgs := range ve.Fields {
		if len(msgs) > 0 && (first == "" || field < first) {
			first, msg = field, msgs[0]
		}
	}
	return msg
}

// WriteEnvelope пишет конверт; для HEAD — без тела
func WriteEnvelope(w http.ResponseWriter, r *http.Request, status int, env domain.APIEnvelope) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(mw.HeaderRequestID, mw.RequestIDFromCtx(r.Context()))
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	_ = json.NewEncoder(w).Encode(env)
}

// Шорткаты успеха
func WriteOKData(w http.ResponseWriter, r *http.Request, data any) {
	WriteEnvelope(w, r, http.StatusOK, domain.OkData(data))
}

func WriteOKMessage(w http.ResponseWriter, r *http.Request, msg string, data any) {
	WriteEnvelope(w, r, http.StatusOK, domain.OkMessage(msg, data))
}

func WriteCreated(w http.ResponseWriter, r *http.Request, msg string, data any) {
	WriteEnvelope(w, r, http.StatusCreated, domain.OkMessage(msg, data))
}

// Шорткаты ошибок
func WriteDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status, env := MapDomainError(err)
	WriteEnvelope(w, r, status, env)
}
