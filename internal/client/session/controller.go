package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Charlesbasis/portfolio-app/internal/client/api"
	"github.com/Charlesbasis/portfolio-app/internal/domain"
)

var ErrInvalidState = errors.New("operation not allowed in current session state")

// Backend: вызовы API, которые нужны сессии; *api.Client его реализует.
type Backend interface {
	Register(ctx context.Context, in api.RegisterInput) (api.AuthResult, error)
	Login(ctx context.Context, email, password string) (api.AuthResult, error)
	Logout(ctx context.Context, token string) error
	Me(ctx context.Context, token string) (domain.User, error)
	CompleteOnboarding(ctx context.Context, token string, in api.OnboardingInput) (domain.User, error)
}

// Controller ведёт сессию по Reduce и держит токен в TokenStore.
// Операции выполняются строго по одной.
type Controller struct {
	mu       sync.Mutex
	backend  Backend
	store    TokenStore
	log      *zap.Logger
	state    State
	redirect string
	user     *domain.User
}

func NewController(b Backend, store TokenStore, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{backend: b, store: store, log: log.Named("session")}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Redirect: маршрут, назначенный последним переходом
func (c *Controller) Redirect() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.redirect
}

func (c *Controller) User() (domain.User, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.user == nil {
		return domain.User{}, false
	}
	return *c.user, true
}

// Token: сохранённый токен, если сессия подтверждена
func (c *Controller) Token() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Authenticated && c.state != OnboardingIncomplete {
		return "", ErrInvalidState
	}
	return c.store.Load()
}

// Boot проверяет сохранённый токен и выбирает стартовый экран.
func (c *Controller) Boot(ctx context.Context) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.apply(Boot{}) {
		return c.state, ErrInvalidState
	}
	return c.verify(ctx)
}

func (c *Controller) Login(ctx context.Context, email, password string) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Unauthenticated {
		return c.state, ErrInvalidState
	}
	res, err := c.backend.Login(ctx, email, password)
	if err != nil {
		return c.state, err
	}
	return c.signedIn(ctx, res)
}

func (c *Controller) Register(ctx context.Context, in api.RegisterInput) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Unauthenticated {
		return c.state, ErrInvalidState
	}
	res, err := c.backend.Register(ctx, in)
	if err != nil {
		return c.state, err
	}
	return c.signedIn(ctx, res)
}

// Logout отзывает токен на сервере; ошибка сервера не мешает локальному выходу.
func (c *Controller) Logout(ctx context.Context) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Uninitialized {
		return c.state, ErrInvalidState
	}
	tok, err := c.store.Load()
	if err == nil && tok != "" {
		if err := c.backend.Logout(ctx, tok); err != nil && !errors.Is(err, domain.ErrUnauth) {
			c.log.Warn("server logout failed", zap.Error(err))
		}
	}
	if err := c.store.Clear(); err != nil {
		return c.state, err
	}
	c.user = nil
	c.apply(Logout{})
	return c.state, nil
}

func (c *Controller) CompleteOnboarding(ctx context.Context, in api.OnboardingInput) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != OnboardingIncomplete {
		return c.state, ErrInvalidState
	}
	tok, err := c.store.Load()
	if err != nil {
		return c.state, err
	}
	u, err := c.backend.CompleteOnboarding(ctx, tok, in)
	if err != nil {
		if errors.Is(err, domain.ErrUnauth) {
			return c.expire()
		}
		return c.state, err
	}
	c.user = &u
	c.apply(OnboardingCompleted{})
	return c.state, nil
}

func (c *Controller) signedIn(ctx context.Context, res api.AuthResult) (State, error) {
	if err := c.store.Save(res.Token); err != nil {
		return c.state, err
	}
	c.apply(LoginSucceeded{})
	return c.verify(ctx)
}

// verify: вызывается в Initializing
func (c *Controller) verify(ctx context.Context) (State, error) {
	tok, err := c.store.Load()
	if err != nil {
		c.apply(TokenMissing{})
		return c.state, err
	}
	if tok == "" {
		c.apply(TokenMissing{})
		return c.state, nil
	}

	u, err := c.backend.Me(ctx, tok)
	switch {
	case errors.Is(err, domain.ErrUnauth):
		if cerr := c.store.Clear(); cerr != nil {
			c.log.Warn("clear rejected token failed", zap.Error(cerr))
		}
		c.apply(TokenRejected{})
		return c.state, nil
	case err != nil:
		// сервер недоступен: токен оставляем до следующей попытки
		c.apply(TokenRejected{})
		return c.state, fmt.Errorf("verify token: %w", err)
	}

	c.user = &u
	c.apply(TokenVerified{Onboarded: u.OnboardingCompleted})
	return c.state, nil
}

// expire: токен отклонён посреди работы: локальный выход
func (c *Controller) expire() (State, error) {
	_ = c.store.Clear()
	c.user = nil
	c.apply(Logout{})
	return c.state, domain.ErrUnauth
}

func (c *Controller) apply(e Event) bool {
	next, redirect := Reduce(c.state, e)
	if next == c.state && redirect == "" {
		c.log.Debug("event ignored", zap.Stringer("state", c.state), zap.String("event", fmt.Sprintf("%T", e)))
		return false
	}
	c.log.Debug("transition",
		zap.Stringer("from", c.state),
		zap.Stringer("to", next),
		zap.String("redirect", redirect))
	c.state, c.redirect = next, redirect
	return true
}
