package mw

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/Charlesbasis/portfolio-app/internal/domain"
)

type UserLookup interface {
	UserByID(ctx context.Context, id domain.UserID) (domain.User, error)
}

// RequireOnboarded пропускает только пользователей, завершивших онбординг.
// Ставится после RequireAuth.
func RequireOnboarded(users UserLookup, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := ctxPrincipal(r.Context())
			if !ok {
				writeFail(w, http.StatusUnauthorized, "Unauthenticated.")
				return
			}
			u, err := users.UserByID(r.Context(), p.UserID)
			switch {
			case err == nil && u.OnboardingCompleted:
				next.ServeHTTP(w, r)
			case err == nil:
				writeFail(w, http.StatusForbidden, "Please complete onboarding first.")
			default:
				// пользователь удалён, а токен ещё жив
				log.Warn("onboarding check failed",
					zap.String("req_id", RequestIDFromCtx(r.Context())),
					zap.Stringer("user_id", p.UserID),
					zap.Error(err))
				writeFail(w, http.StatusUnauthorized, "Unauthenticated.")
			}
		})
	}
}
