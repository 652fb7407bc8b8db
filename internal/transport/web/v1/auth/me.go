package auth

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/Charlesbasis/portfolio-app/internal/domain"
	"github.com/Charlesbasis/portfolio-app/internal/transport/web/logx"
	"github.com/Charlesbasis/portfolio-app/internal/transport/web/mw"
	v1 "github.com/Charlesbasis/portfolio-app/internal/transport/web/v1"
)

type HandlerMe struct {
	Log   *zap.Logger
	Users Users
}

// Me godoc
// @Summary     Current user
// @Description Клиент проверяет сохранённый токен и флаг onboarding_completed.
// @Tags        auth
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} domain.APIEnvelope{data=domain.User}
// @Failure     401 {object} domain.APIEnvelope
// @Router      /v1/auth/me [get]
func (h *HandlerMe) Me(w http.ResponseWriter, r *http.Request) {
	const op = "auth.me"
	reqID := mw.RequestIDFromCtx(r.Context())

	p, ok := domain.PrincipalFromCtx(r.Context())
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrUnauth)
		return
	}

	u, err := h.Users.UserByID(r.Context(), p.UserID)
	if err != nil {
		// токен жив, а пользователя уже нет
		logx.Info(h.Log, reqID, op, "user lookup failed", "user_id", p.UserID, "error", err.Error())
		v1.WriteDomainError(w, r, domain.ErrUnauth)
		return
	}
	v1.WriteOKData(w, r, u)
}
