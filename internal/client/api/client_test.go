package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Charlesbasis/portfolio-app/internal/domain"
)

func newServer(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", WithHTTPClient(srv.Client()))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestLogin(t *testing.T) {
	id := uuid.New()
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/auth/login", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ann@example.com", body["email"])

		writeJSON(w, http.StatusOK, domain.OkMessage("Login successful", map[string]any{
			"token": "tok",
			"user":  map[string]any{"id": id, "name": "Ann", "onboarding_completed": true},
		}))
	})

	res, err := c.Login(context.Background(), "ann@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok", res.Token)
	assert.Equal(t, id, res.User.ID)
	assert.True(t, res.User.OnboardingCompleted)
}

func TestMe_SendsBearerAndMapsUnauth(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good" {
			writeJSON(w, http.StatusUnauthorized, domain.Fail("Unauthenticated."))
			return
		}
		writeJSON(w, http.StatusOK, domain.OkData(map[string]any{"name": "Ann"}))
	})

	u, err := c.Me(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "Ann", u.Name)

	_, err = c.Me(context.Background(), "bad")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnauth)
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Unauthenticated.", apiErr.Message)
}

func TestValidationErrorCarriesFields(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnprocessableEntity, domain.FailFields("The email has already been taken.",
			map[string][]string{"email": {"The email has already been taken."}}))
	})

	_, err := c.Register(context.Background(), RegisterInput{Email: "ann@example.com"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, []string{"The email has already been taken."}, apiErr.Fields["email"])
}

func TestNonJSONResponse(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})

	err := c.Logout(context.Background(), "tok")
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.NotErrorIs(t, err, domain.ErrUnauth)
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url).Me(context.Background(), "tok")
	require.Error(t, err)
	var apiErr *Error
	assert.False(t, errors.As(err, &apiErr))
}
