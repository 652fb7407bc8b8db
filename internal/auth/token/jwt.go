package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Charlesbasis/portfolio-app/internal/domain"
)

type Manager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func New(secret string, issuer string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}
}

// внутренний тип для подписи/парсинга с jwt.RegisteredClaims
type jwtClaims struct {
	UserID uuid.UUID `json:"uid"`
	Email  string    `json:"email"`
	jwt.RegisteredClaims
}

var _ domain.TokenManager = (*Manager)(nil)

// Issue выпускает JWT и возвращает доменные клеймы
func (m *Manager) Issue(_ context.Context, userID domain.UserID, email string) (domain.Token, domain.TokenClaims, error) {
	now := m.now().UTC()
	jti := uuid.NewString()

	cl := jwtClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        jti,
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, cl)
	tokenStr, err := t.SignedString(m.secret)
	if err != nil {
		return "", domain.TokenClaims{}, err
	}
	return tokenStr, toDomain(cl), nil
}

// Parse валидирует подпись, издателя и сроки. Любая ошибка — ErrUnauth.
func (m *Manager) Parse(_ context.Context, raw domain.Token) (domain.TokenClaims, error) {
	var out jwtClaims
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}
	tkn, err := jwt.ParseWithClaims(raw, &out, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}, opts...)
	if err != nil {
		return domain.TokenClaims{}, fmt.Errorf("%w: %w", domain.ErrUnauth, err)
	}
	if !tkn.Valid || out.ID == "" || out.UserID == uuid.Nil {
		return domain.TokenClaims{}, fmt.Errorf("%w: %w", domain.ErrUnauth, jwt.ErrTokenInvalidClaims)
	}
	return toDomain(out), nil
}

// IsExpired: для сообщений клиенту: истёкший токен отличаем от поддельного.
func IsExpired(err error) bool { return errors.Is(err, jwt.ErrTokenExpired) }

func toDomain(cl jwtClaims) domain.TokenClaims {
	return domain.TokenClaims{
		JTI:       cl.ID,
		UserID:    cl.UserID,
		Email:     cl.Email,
		IssuedAt:  cl.IssuedAt.Time,
		ExpiresAt: cl.ExpiresAt.Time,
	}
}
