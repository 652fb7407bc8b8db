package auth

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/Charlesbasis/portfolio-app/internal/domain"
	"github.com/Charlesbasis/portfolio-app/internal/transport/web/logx"
	"github.com/Charlesbasis/portfolio-app/internal/transport/web/mw"
	v1 "github.com/Charlesbasis/portfolio-app/internal/transport/web/v1"
)

type HandlerLogout struct {
	Log       *zap.Logger
	Blacklist domain.TokenBlacklist
}

// Logout godoc
// @Summary     Logout (revoke token)
// @Description Помечает текущий токен отозванным до истечения exp.
// @Tags        auth
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} domain.APIEnvelope
// @Failure     401 {object} domain.APIEnvelope
// @Failure     500 {object} domain.APIEnvelope
// @Router      /v1/auth/logout [post]
func (h *HandlerLogout) Logout(w http.ResponseWriter, r *http.Request) {
	const op = "auth.logout"
	reqID := mw.RequestIDFromCtx(r.Context())

	p, ok := domain.PrincipalFromCtx(r.Context())
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrUnauth)
		return
	}

	if err := h.Blacklist.Revoke(r.Context(), p.JTI, p.ExpiresAt); err != nil {
		logx.Error(h.Log, reqID, op, "revoke failed", err, "jti", p.JTI)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "user_id", p.UserID, "jti", p.JTI)
	v1.WriteOKMessage(w, r, "Logged out successfully", nil)
}
