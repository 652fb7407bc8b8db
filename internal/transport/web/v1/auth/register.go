package auth

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/Charlesbasis/portfolio-app/internal/domain"
	"github.com/Charlesbasis/portfolio-app/internal/transport/web/logx"
	"github.com/Charlesbasis/portfolio-app/internal/transport/web/mw"
	v1 "github.com/Charlesbasis/portfolio-app/internal/transport/web/v1"
)

// HandlerRegister обрабатывает POST /v1/auth/register
type HandlerRegister struct {
	Log    *zap.Logger
	Users  Users
	Hasher domain.PasswordHasher
	Tokens domain.TokenManager
}

type registerRequest struct {
	Name                 string `json:"name" validate:"required,max=255"`
	Email                string `json:"email" validate:"required,email,max=255"`
	Password             string `json:"password" validate:"required,strong_password"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

// Register godoc
// @Summary     Register new user
// @Description Создаёт пользователя и сразу выдаёт токен. Онбординг после регистрации не пройден.
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body registerRequest true "name, email, password, password_confirmation"
// @Success     201 {object} domain.APIEnvelope{data=authResponse}
// @Failure     422 {object} domain.APIEnvelope
// @Failure     429 {object} domain.APIEnvelope
// @Failure     500 {object} domain.APIEnvelope
// @Router      /v1/auth/register [post]
func (h *HandlerRegister) Register(w http.ResponseWriter, r *http.Request) {
	const op = "auth.register"
	reqID := mw.RequestIDFromCtx(r.Context())

	var req registerRequest
	if err := v1.Bind(r, &req); err != nil {
		logx.Info(h.Log, reqID, op, "invalid input", "error", err.Error())
		v1.WriteDomainError(w, r, err)
		return
	}

	hash, err := h.Hasher.Hash(req.Password)
	if err != nil {
		logx.Error(h.Log, reqID, op, "hash failed", err)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	u, err := h.Users.CreateUser(r.Context(), domain.User{
		Name:     req.Name,
		Email:    domain.NormalizeEmail(req.Email),
		PassHash: hash,
	})
	if err != nil {
		logx.Error(h.Log, reqID, op, "create user failed", err)
		v1.WriteDomainError(w, r, err)
		return
	}

	token, _, err := h.Tokens.Issue(r.Context(), u.ID, u.Email)
	if err != nil {
		logx.Error(h.Log, reqID, op, "issue token failed", err, "user_id", u.ID)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "user_id", u.ID)
	v1.WriteCreated(w, r, "Registration successful", authResponse{Token: token, User: u})
}
