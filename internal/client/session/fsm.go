// Package session ведёт состояние клиентской сессии и переходы между экранами.
package session

// State: этап жизненного цикла сессии
type State int

const (
	Uninitialized State = iota
	Initializing
	Unauthenticated
	OnboardingIncomplete
	Authenticated
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initializing:
		return "initializing"
	case Unauthenticated:
		return "unauthenticated"
	case OnboardingIncomplete:
		return "onboarding_incomplete"
	case Authenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Куда отправить пользователя после перехода
const (
	RouteLogin      = "/login"
	RouteOnboarding = "/onboarding"
	RouteDashboard  = "/dashboard"
)

type Event interface{ isEvent() }

type (
	Boot           struct{}
	TokenMissing   struct{}
	TokenRejected  struct{}
	LoginSucceeded struct{}
	Logout         struct{}
	// OnboardingCompleted: анкета заполнена и сохранена
	OnboardingCompleted struct{}
	TokenVerified       struct{ Onboarded bool }
)

func (Boot) isEvent()                {}
func (TokenMissing) isEvent()        {}
func (TokenRejected) isEvent()       {}
func (LoginSucceeded) isEvent()      {}
func (Logout) isEvent()              {}
func (OnboardingCompleted) isEvent() {}
func (TokenVerified) isEvent()       {}

// Reduce: чистая функция перехода. Недопустимое событие оставляет состояние
// как есть и возвращает пустой redirect.
func Reduce(s State, e Event) (State, string) {
	switch ev := e.(type) {
	case Boot:
		if s == Uninitialized {
			return Initializing, ""
		}
	case TokenMissing, TokenRejected:
		if s == Initializing {
			return Unauthenticated, RouteLogin
		}
	case TokenVerified:
		if s != Initializing {
			break
		}
		if ev.Onboarded {
			return Authenticated, RouteDashboard
		}
		return OnboardingIncomplete, RouteOnboarding
	case LoginSucceeded:
		if s == Unauthenticated {
			return Initializing, ""
		}
	case Logout:
		if s != Uninitialized {
			return Unauthenticated, RouteLogin
		}
	case OnboardingCompleted:
		if s == OnboardingIncomplete {
			return Authenticated, RouteDashboard
		}
	}
	return s, ""
}
