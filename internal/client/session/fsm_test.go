package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestReduce(t *testing.T) {
	cases := []struct {
		name     string
		from     State
		ev       Event
		to       State
		redirect string
	}{
		{"boot", Uninitialized, Boot{}, Initializing, ""},
		{"boot twice", Initializing, Boot{}, Initializing, ""},
		{"no token", Initializing, TokenMissing{}, Unauthenticated, RouteLogin},
		{"rejected", Initializing, TokenRejected{}, Unauthenticated, RouteLogin},
		{"verified onboarded", Initializing, TokenVerified{Onboarded: true}, Authenticated, RouteDashboard},
		{"verified not onboarded", Initializing, TokenVerified{}, OnboardingIncomplete, RouteOnboarding},
		{"verified outside init", Authenticated, TokenVerified{}, Authenticated, ""},
		{"login", Unauthenticated, LoginSucceeded{}, Initializing, ""},
		{"login while authenticated", Authenticated, LoginSucceeded{}, Authenticated, ""},
		{"logout authenticated", Authenticated, Logout{}, Unauthenticated, RouteLogin},
		{"logout onboarding", OnboardingIncomplete, Logout{}, Unauthenticated, RouteLogin},
		{"logout initializing", Initializing, Logout{}, Unauthenticated, RouteLogin},
		{"logout before boot", Uninitialized, Logout{}, Uninitialized, ""},
		{"onboarding done", OnboardingIncomplete, OnboardingCompleted{}, Authenticated, RouteDashboard},
		{"onboarding done twice", Authenticated, OnboardingCompleted{}, Authenticated, ""},
		{"token missing late", Authenticated, TokenMissing{}, Authenticated, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			to, redirect := Reduce(tc.from, tc.ev)
			assert.Equal(t, tc.to, to)
			assert.Equal(t, tc.redirect, redirect)
		})
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "onboarding_incomplete", OnboardingIncomplete.String())
	assert.Equal(t, "unknown", State(42).String())
}
