package v1

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Charlesbasis/portfolio-app/internal/domain"
)

type sample struct {
	Title    string   `json:"title" validate:"required,max=10"`
	Email    string   `json:"email" validate:"omitempty,email"`
	Password string   `json:"password" validate:"omitempty,strong_password"`
	Confirm  string   `json:"password_confirmation" validate:"omitempty,eqfield=Password"`
	Status   *string  `json:"status" validate:"omitnil,status"`
	Rating   int      `json:"rating" validate:"omitempty,min=1,max=5"`
	Tags     []string `json:"tags" validate:"omitempty,max=2,dive,required"`
}

func bindBody(t *testing.T, body string) error {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	var s sample
	return Bind(req, &s)
}

func fieldsOf(t *testing.T, err error) map[string][]string {
	t.Helper()
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve), "want ValidationError, got %v", err)
	return ve.Fields
}

func TestBind_Valid(t *testing.T) {
	assert.NoError(t, bindBody(t, `{"title":"ok","status":"published","tags":["a"]}`))
}

func TestBind_Messages(t *testing.T) {
	err := bindBody(t, `{
		"title": "much too long title",
		"email": "nope",
		"password": "simple",
		"password_confirmation": "other",
		"status": "archived",
		"rating": 9,
		"tags": ["a", ""]
	}`)
	f := fieldsOf(t, err)

	assert.Equal(t, []string{"The title field must not be greater than 10 characters."}, f["title"])
	assert.Equal(t, []string{"The email field must be a valid email address."}, f["email"])
	assert.Equal(t, []string{"The selected status is invalid."}, f["status"])
	assert.Equal(t, []string{"The rating field must not be greater than 5."}, f["rating"])
	assert.Equal(t, []string{"The tags.1 field is required."}, f["tags.1"])
	assert.Equal(t, []string{"The password field confirmation does not match."}, f["password_confirmation"])
	assert.Contains(t, f["password"][0], "uppercase")
}

func TestBind_EmptyBodyRunsRules(t *testing.T) {
	f := fieldsOf(t, bindBody(t, ``))
	assert.Equal(t, []string{"The title field is required."}, f["title"])
}

func TestBind_BadJSON(t *testing.T) {
	f := fieldsOf(t, bindBody(t, `{"title":`))
	assert.Contains(t, f, "body")
}

func TestBind_TooLarge(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"`+strings.Repeat("x", 100)+`"}`))
	req.Body = http.MaxBytesReader(rec, req.Body, 16)

	var s sample
	assert.ErrorIs(t, Bind(req, &s), domain.ErrPayloadTooLarge)
}

func TestMustRegister_PanicsOnBadRule(t *testing.T) {
	ok := func(validator.FieldLevel) bool { return true }
	assert.Panics(t, func() { mustRegister(validator.New(), "", ok) })
	assert.Panics(t, func() { mustRegister(validator.New(), "broken", nil) })
	assert.NotPanics(t, func() { mustRegister(validator.New(), "always", ok) })
}
