package auth

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/Charlesbasis/portfolio-app/internal/domain"
	"github.com/Charlesbasis/portfolio-app/internal/transport/web/logx"
	"github.com/Charlesbasis/portfolio-app/internal/transport/web/mw"
	v1 "github.com/Charlesbasis/portfolio-app/internal/transport/web/v1"
)

type HandlerLogin struct {
	Log    *zap.Logger
	Users  Users
	Hasher domain.PasswordHasher
	Tokens domain.TokenManager
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login godoc
// @Summary     Authenticate user
// @Description Возвращает токен и пользователя при валидных email и пароле.
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body loginRequest true "email, password"
// @Success     200 {object} domain.APIEnvelope{data=authResponse}
// @Failure     401 {object} domain.APIEnvelope
// @Failure     422 {object} domain.APIEnvelope
// @Failure     429 {object} domain.APIEnvelope
// @Router      /v1/auth/login [post]
func (h *HandlerLogin) Login(w http.ResponseWriter, r *http.Request) {
	const op = "auth.login"
	reqID := mw.RequestIDFromCtx(r.Context())

	var req loginRequest
	if err := v1.Bind(r, &req); err != nil {
		logx.Info(h.Log, reqID, op, "invalid input", "error", err.Error())
		v1.WriteDomainError(w, r, err)
		return
	}

	u, err := h.Users.UserByEmail(r.Context(), domain.NormalizeEmail(req.Email))
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logx.Error(h.Log, reqID, op, "user lookup failed", err)
			v1.WriteDomainError(w, r, err)
			return
		}
		logx.Info(h.Log, reqID, op, "unknown email")
		invalidCredentials(w, r)
		return
	}

	ok, err := h.Hasher.Verify(req.Password, u.PassHash)
	if err != nil || !ok {
		logx.Info(h.Log, reqID, op, "password mismatch", "user_id", u.ID)
		invalidCredentials(w, r)
		return
	}

	token, _, err := h.Tokens.Issue(r.Context(), u.ID, u.Email)
	if err != nil {
		logx.Error(h.Log, reqID, op, "issue token failed", err, "user_id", u.ID)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "user_id", u.ID)
	v1.WriteOKMessage(w, r, "Login successful", authResponse{Token: token, User: u})
}

// одинаковый ответ для неизвестного email и неверного пароля
func invalidCredentials(w http.ResponseWriter, r *http.Request) {
	v1.WriteEnvelope(w, r, http.StatusUnauthorized, domain.Fail("Invalid credentials."))
}
