// Package auth обслуживает регистрацию, вход, выход и текущего пользователя.
package auth

import (
	"context"

	"github.com/Charlesbasis/portfolio-app/internal/domain"
)

// Users: часть репозитория пользователей, нужная хендлерам входа.
type Users interface {
	CreateUser(ctx context.Context, u domain.User) (domain.User, error)
	UserByEmail(ctx context.Context, email string) (domain.User, error)
	UserByID(ctx context.Context, id domain.UserID) (domain.User, error)
}

// authResponse: общий ответ регистрации и входа
type authResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}
