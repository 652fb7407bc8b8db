package resource

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Charlesbasis/portfolio-app/internal/domain"
	"github.com/Charlesbasis/portfolio-app/internal/transport/web/logx"
	"github.com/Charlesbasis/portfolio-app/internal/transport/web/mw"
	v1 "github.com/Charlesbasis/portfolio-app/internal/transport/web/v1"
)

// Update godoc
// @Summary     Update record (partial)
// @Description Меняются только переданные поля. Чужая запись — 404.
// @Tags        content
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       resource path string true "projects|testimonials|services|skills"
// @Param       id       path string true "record id"
// @Success     200 {object} domain.APIEnvelope{data=object}
// @Failure     404 {object} domain.APIEnvelope
// @Failure     422 {object} domain.APIEnvelope
// @Router      /v1/{resource}/{id} [put]
func (h *Handler[T, PT, C, U]) Update(w http.ResponseWriter, r *http.Request) {
	op := h.op("update")
	reqID := mw.RequestIDFromCtx(r.Context())

	p, ok := domain.PrincipalFromCtx(r.Context())
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrUnauth)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		v1.WriteDomainError(w, r, domain.ErrNotFound)
		return
	}

	var in U
	if err := v1.Bind(r, &in); err != nil {
		logx.Info(h.Log, reqID, op, "invalid input", "error", err.Error())
		v1.WriteDomainError(w, r, err)
		return
	}

	rec, err := h.Service.Update(r.Context(), p.UserID, id, func(t *T) { h.Apply(t, in) })
	if err != nil {
		logx.Error(h.Log, reqID, op, "update failed", err, "id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "id", id, "slug", PT(&rec).GetMeta().Slug)
	v1.WriteOKMessage(w, r, h.Noun+" updated successfully", rec)
}
