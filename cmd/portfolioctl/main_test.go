package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Charlesbasis/portfolio-app/internal/domain"
)

// fakeAPI: минимальный сервер с одним пользователем и токеном "tok"
type fakeAPI struct {
	onboarded bool
	revoked   bool
}

func (f *fakeAPI) handler() http.Handler {
	write := func(w http.ResponseWriter, status int, env domain.APIEnvelope) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(env)
	}
	user := func() domain.User {
		return domain.User{Name: "Ann", Email: "ann@example.com", OnboardingCompleted: f.onboarded}
	}
	authed := func(r *http.Request) bool {
		return !f.revoked && r.Header.Get("Authorization") == "Bearer tok"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in["password"] != "Secret123!" {
			write(w, http.StatusUnauthorized, domain.Fail("Invalid credentials."))
			return
		}
		f.revoked = false
		write(w, http.StatusOK, domain.OkMessage("Login successful", map[string]any{"token": "tok", "user": user()}))
	})
	mux.HandleFunc("GET /v1/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if !authed(r) {
			write(w, http.StatusUnauthorized, domain.Fail("Unauthenticated."))
			return
		}
		write(w, http.StatusOK, domain.OkData(user()))
	})
	mux.HandleFunc("POST /v1/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		f.revoked = true
		write(w, http.StatusOK, domain.OkMessage("Logged out successfully", nil))
	})
	mux.HandleFunc("POST /v1/onboarding", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]any
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in["headline"] == "" || in["headline"] == nil {
			write(w, http.StatusUnprocessableEntity, domain.FailFields("The headline field is required.",
				map[string][]string{"headline": {"The headline field is required."}}))
			return
		}
		f.onboarded = true
		write(w, http.StatusOK, domain.OkMessage("Onboarding completed successfully", user()))
	})
	mux.HandleFunc("GET /v1/dashboard/stats", func(w http.ResponseWriter, r *http.Request) {
		write(w, http.StatusOK, domain.OkData(domain.DashboardStats{
			Projects: domain.ResourceCounts{Total: 2, Published: 1},
			Messages: 3, UnreadMessages: 1,
		}))
	})
	return mux
}

func run(t *testing.T, srvURL, tokenFile string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--api", srvURL, "--token-file", tokenFile}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSessionLifecycle(t *testing.T) {
	api := &fakeAPI{}
	srv := httptest.NewServer(api.handler())
	defer srv.Close()
	tokenFile := filepath.Join(t.TempDir(), "token")

	out, err := run(t, srv.URL, tokenFile, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "state: unauthenticated")
	assert.Contains(t, out, "next: /login")

	_, err = run(t, srv.URL, tokenFile, "login", "--email", "ann@example.com", "--password", "nope")
	assert.ErrorContains(t, err, "401")

	out, err = run(t, srv.URL, tokenFile, "login", "--email", "ann@example.com", "--password", "Secret123!")
	require.NoError(t, err)
	assert.Contains(t, out, "state: onboarding_incomplete")
	assert.Contains(t, out, "next: /onboarding")

	_, err = run(t, srv.URL, tokenFile, "login", "--email", "ann@example.com", "--password", "Secret123!")
	assert.ErrorContains(t, err, "already signed in as ann@example.com")

	out, err = run(t, srv.URL, tokenFile, "onboard", "--headline", "Gopher", "--social", "github=https://github.com/ann")
	require.NoError(t, err)
	assert.Contains(t, out, "state: authenticated")
	assert.Contains(t, out, "next: /dashboard")

	out, err = run(t, srv.URL, tokenFile, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "user: Ann <ann@example.com>")
	assert.Contains(t, out, "2 total, 1 published")
	assert.Contains(t, out, "3 total, 1 unread")

	out, err = run(t, srv.URL, tokenFile, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "state: unauthenticated")
	assert.True(t, api.revoked)

	_, err = run(t, srv.URL, tokenFile, "onboard", "--headline", "x")
	assert.ErrorContains(t, err, "not signed in")
}

func TestPasswordFromEnv(t *testing.T) {
	srv := httptest.NewServer((&fakeAPI{onboarded: true}).handler())
	defer srv.Close()
	t.Setenv("PORTFOLIO_PASSWORD", "Secret123!")

	out, err := run(t, srv.URL, filepath.Join(t.TempDir(), "token"), "login", "--email", "ann@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "state: authenticated")
}

func TestDescribeListsFieldErrors(t *testing.T) {
	srv := httptest.NewServer((&fakeAPI{}).handler())
	defer srv.Close()
	tokenFile := filepath.Join(t.TempDir(), "token")

	_, err := run(t, srv.URL, tokenFile, "login", "--email", "ann@example.com", "--password", "Secret123!")
	require.NoError(t, err)

	_, err = run(t, srv.URL, tokenFile, "onboard", "--headline", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "headline: The headline field is required.")
}
