// Package api содержит HTTP-клиент к Content Store для CLI и тестов.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Charlesbasis/portfolio-app/internal/domain"
)

type Client struct {
	base string
	hc   *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		base: strings.TrimRight(baseURL, "/"),
		hc:   &http.Client{Timeout: 15 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// AuthResult: ответ регистрации и входа
type AuthResult struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type RegisterInput struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

type OnboardingInput struct {
	Headline  string            `json:"headline"`
	Bio       string            `json:"bio,omitempty"`
	Location  string            `json:"location,omitempty"`
	Website   string            `json:"website,omitempty"`
	AvatarURL string            `json:"avatar_url,omitempty"`
	Socials   map[string]string `json:"socials,omitempty"`
}

func (c *Client) Register(ctx context.Context, in RegisterInput) (AuthResult, error) {
	var out AuthResult
	err := c.do(ctx, http.MethodPost, "/v1/auth/register", "", in, &out)
	return out, err
}

func (c *Client) Login(ctx context.Context, email, password string) (AuthResult, error) {
	var out AuthResult
	body := map[string]string{"email": email, "password": password}
	err := c.do(ctx, http.MethodPost, "/v1/auth/login", "", body, &out)
	return out, err
}

func (c *Client) Logout(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/v1/auth/logout", token, nil, nil)
}

// Me проверяет токен; просроченный или отозванный — ошибка с domain.ErrUnauth.
func (c *Client) Me(ctx context.Context, token string) (domain.User, error) {
	var u domain.User
	err := c.do(ctx, http.MethodGet, "/v1/auth/me", token, nil, &u)
	return u, err
}

func (c *Client) CompleteOnboarding(ctx context.Context, token string, in OnboardingInput) (domain.User, error) {
	var u domain.User
	err := c.do(ctx, http.MethodPost, "/v1/onboarding", token, in, &u)
	return u, err
}

func (c *Client) DashboardStats(ctx context.Context, token string) (domain.DashboardStats, error) {
	var st domain.DashboardStats
	err := c.do(ctx, http.MethodGet, "/v1/dashboard/stats", token, nil, &st)
	return st, err
}

type envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    json.RawMessage     `json:"data"`
	Errors  map[string][]string `json:"errors"`
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s: %w", path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return &Error{Status: resp.StatusCode, Message: "invalid response body"}
	}
	if resp.StatusCode >= 300 || !env.Success {
		return &Error{Status: resp.StatusCode, Message: env.Message, Fields: env.Errors}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode %s: %w", path, err)
		}
	}
	return nil
}
