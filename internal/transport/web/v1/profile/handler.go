// Package profile отвечает за онбординг и профиль текущего пользователя.
package profile

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/Charlesbasis/portfolio-app/internal/domain"
	"github.com/Charlesbasis/portfolio-app/internal/transport/web/logx"
	"github.com/Charlesbasis/portfolio-app/internal/transport/web/mw"
	v1 "github.com/Charlesbasis/portfolio-app/internal/transport/web/v1"
)

type Users interface {
	UserByID(ctx context.Context, id domain.UserID) (domain.User, error)
	UpdateProfile(ctx context.Context, u domain.User) (domain.User, error)
}

// Invalidator сбрасывает кеш владельца (портфолио показывает профиль).
type Invalidator interface {
	Invalidate(ctx context.Context, owner domain.UserID)
}

type Handler struct {
	Log   *zap.Logger
	Users Users
	Inv   Invalidator
}

type onboardingRequest struct {
	Headline  string            `json:"headline" validate:"required,max=255"`
	Bio       string            `json:"bio" validate:"max=5000"`
	Location  string            `json:"location" validate:"max=255"`
	Website   string            `json:"website" validate:"omitempty,url,max=2048"`
	AvatarURL string            `json:"avatar_url" validate:"omitempty,url,max=2048"`
	Socials   map[string]string `json:"socials" validate:"omitempty,max=20,dive,keys,required,max=50,endkeys,url"`
}

type profileRequest struct {
	Name      *string            `json:"name" validate:"omitnil,min=1,max=255"`
	Headline  *string            `json:"headline" validate:"omitnil,max=255"`
	Bio       *string            `json:"bio" validate:"omitnil,max=5000"`
	Location  *string            `json:"location" validate:"omitnil,max=255"`
	Website   *string            `json:"website" validate:"omitnil,url,max=2048"`
	AvatarURL *string            `json:"avatar_url" validate:"omitnil,url,max=2048"`
	Socials   *map[string]string `json:"socials" validate:"omitnil,max=20,dive,keys,required,max=50,endkeys,url"`
}

// Onboarding godoc
// @Summary     Complete onboarding
// @Description Заполняет профиль и выставляет onboarding_completed=true.
// @Tags        profile
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body onboardingRequest true "profile fields"
// @Success     200 {object} domain.APIEnvelope{data=domain.User}
// @Failure     401 {object} domain.APIEnvelope
// @Failure     422 {object} domain.APIEnvelope
// @Router      /v1/onboarding [post]
func (h *Handler) Onboarding(w http.ResponseWriter, r *http.Request) {
	const op = "profile.onboarding"
	reqID := mw.RequestIDFromCtx(r.Context())

	var req onboardingRequest
	if err := v1.Bind(r, &req); err != nil {
		logx.Info(h.Log, reqID, op, "invalid input", "error", err.Error())
		v1.WriteDomainError(w, r, err)
		return
	}

	u, err := h.update(r, func(u *domain.User) {
		u.Headline = req.Headline
		u.Bio = req.Bio
		u.Location = req.Location
		u.Website = req.Website
		u.AvatarURL = req.AvatarURL
		if req.Socials != nil {
			u.Socials = req.Socials
		}
		u.OnboardingCompleted = true
	})
	if err != nil {
		logx.Error(h.Log, reqID, op, "update failed", err)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "user_id", u.ID)
	v1.WriteOKMessage(w, r, "Onboarding completed successfully", u)
}

// Get godoc
// @Summary     Get own profile
// @Tags        profile
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} domain.APIEnvelope{data=domain.User}
// @Failure     401 {object} domain.APIEnvelope
// @Router      /v1/profile [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := domain.PrincipalFromCtx(r.Context())
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrUnauth)
		return
	}
	u, err := h.Users.UserByID(r.Context(), p.UserID)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, u)
}

// Update godoc
// @Summary     Update own profile
// @Description Меняются только переданные поля.
// @Tags        profile
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body profileRequest true "profile fields"
// @Success     200 {object} domain.APIEnvelope{data=domain.User}
// @Failure     401 {object} domain.APIEnvelope
// @Failure     422 {object} domain.APIEnvelope
// @Router      /v1/profile [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "profile.update"
	reqID := mw.RequestIDFromCtx(r.Context())

	var req profileRequest
	if err := v1.Bind(r, &req); err != nil {
		logx.Info(h.Log, reqID, op, "invalid input", "error", err.Error())
		v1.WriteDomainError(w, r, err)
		return
	}

	u, err := h.update(r, func(u *domain.User) {
		set(&u.Name, req.Name)
		set(&u.Headline, req.Headline)
		set(&u.Bio, req.Bio)
		set(&u.Location, req.Location)
		set(&u.Website, req.Website)
		set(&u.AvatarURL, req.AvatarURL)
		if req.Socials != nil {
			u.Socials = *req.Socials
		}
	})
	if err != nil {
		logx.Error(h.Log, reqID, op, "update failed", err)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "user_id", u.ID)
	v1.WriteOKMessage(w, r, "Profile updated successfully", u)
}

// update: прочитать, поменять, сохранить, сбросить кеш владельца.
func (h *Handler) update(r *http.Request, mutate func(*domain.User)) (domain.User, error) {
	p, ok := domain.PrincipalFromCtx(r.Context())
	if !ok {
		return domain.User{}, domain.ErrUnauth
	}
	u, err := h.Users.UserByID(r.Context(), p.UserID)
	if err != nil {
		return domain.User{}, err
	}
	mutate(&u)
	u, err = h.Users.UpdateProfile(r.Context(), u)
	if err != nil {
		return domain.User{}, err
	}
	if h.Inv != nil {
		h.Inv.Invalidate(r.Context(), u.ID)
	}
	return u, nil
}

func set[V any](dst *V, src *V) {
	if src != nil {
		*dst = *src
	}
}
