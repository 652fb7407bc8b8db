package mw

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/Charlesbasis/portfolio-app/internal/domain"
)

type AuthDeps struct {
	Tokens    domain.TokenManager
	Blacklist domain.TokenBlacklist
	Log       *zap.Logger
}

// OptionalAuth кладёт Principal в контекст, если токен валиден; иначе идёт анонимно.
func OptionalAuth(deps AuthDeps) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, err := authenticate(r, deps)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(domain.WithPrincipal(r.Context(), p)))
		})
	}
}

func RequireAuth(deps AuthDeps) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, err := authenticate(r, deps)
			if err != nil {
				if deps.Log != nil && !errors.Is(err, errNoToken) {
					deps.Log.Info("auth rejected",
						zap.String("req_id", RequestIDFromCtx(r.Context())),
						zap.Error(err))
				}
				writeFail(w, http.StatusUnauthorized, "Unauthenticated.")
				return
			}
			next.ServeHTTP(w, r.WithContext(domain.WithPrincipal(r.Context(), p)))
		})
	}
}

var errNoToken = errors.New("no bearer token")

func authenticate(r *http.Request, deps AuthDeps) (domain.Principal, error) {
	raw := BearerToken(r)
	if raw == "" {
		return domain.Principal{}, errNoToken
	}
	claims, err := deps.Tokens.Parse(r.Context(), raw)
	if err != nil {
		return domain.Principal{}, err
	}
	revoked, err := deps.Blacklist.IsRevoked(r.Context(), claims.JTI)
	if err != nil {
		// Redis недоступен: не пускаем, отозванный токен не должен пройти
		return domain.Principal{}, err
	}
	if revoked {
		return domain.Principal{}, domain.ErrUnauth
	}
	return domain.Principal{
		UserID:    claims.UserID,
		Email:     claims.Email,
		JTI:       claims.JTI,
		ExpiresAt: claims.ExpiresAt,
	}, nil
}

// BearerToken достаёт токен из Authorization: Bearer ...
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func writeFail(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(domain.Fail(msg))
}

// ctxPrincipal: короткий путь для middleware ниже по цепочке.
func ctxPrincipal(ctx context.Context) (domain.Principal, bool) {
	return domain.PrincipalFromCtx(ctx)
}
