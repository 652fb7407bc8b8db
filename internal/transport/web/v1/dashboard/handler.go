// Package dashboard отдаёт кешируемые агрегаты: статистику владельца и публичное портфолио.
package dashboard

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Charlesbasis/portfolio-app/internal/domain"
	"github.com/Charlesbasis/portfolio-app/internal/transport/web/logx"
	"github.com/Charlesbasis/portfolio-app/internal/transport/web/mw"
	v1 "github.com/Charlesbasis/portfolio-app/internal/transport/web/v1"
)

type Views interface {
	DashboardStats(ctx context.Context, owner domain.UserID) (domain.DashboardStats, error)
	Portfolio(ctx context.Context, owner domain.UserID) (domain.Portfolio, error)
}

type Handler struct {
	Log   *zap.Logger
	Views Views
}

// Stats godoc
// @Summary     Dashboard statistics
// @Description Счётчики по ресурсам и непрочитанным сообщениям. Кешируется, сбрасывается при любой записи владельца.
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} domain.APIEnvelope{data=domain.DashboardStats}
// @Failure     401 {object} domain.APIEnvelope
// @Failure     403 {object} domain.APIEnvelope
// @Router      /v1/dashboard/stats [get]
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	const op = "dashboard.stats"
	reqID := mw.RequestIDFromCtx(r.Context())

	p, ok := domain.PrincipalFromCtx(r.Context())
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrUnauth)
		return
	}
	st, err := h.Views.DashboardStats(r.Context(), p.UserID)
	if err != nil {
		logx.Error(h.Log, reqID, op, "stats failed", err, "user_id", p.UserID)
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, st)
}

// Portfolio godoc
// @Summary     Public portfolio
// @Description Профиль и опубликованный контент владельца одним ответом.
// @Tags        dashboard
// @Produce     json
// @Param       user_id path string true "owner id"
// @Success     200 {object} domain.APIEnvelope{data=domain.Portfolio}
// @Failure     404 {object} domain.APIEnvelope
// @Router      /v1/portfolio/{user_id} [get]
func (h *Handler) Portfolio(w http.ResponseWriter, r *http.Request) {
	const op = "dashboard.portfolio"
	reqID := mw.RequestIDFromCtx(r.Context())

	owner, err := uuid.Parse(chi.URLParam(r, "user_id"))
	if err != nil {
		v1.WriteDomainError(w, r, domain.ErrNotFound)
		return
	}
	pf, err := h.Views.Portfolio(r.Context(), owner)
	if err != nil {
		logx.Info(h.Log, reqID, op, "portfolio failed", "user_id", owner, "error", err.Error())
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, pf)
}
