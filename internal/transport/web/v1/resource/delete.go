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

// Delete godoc
// @Summary     Delete record
// @Tags        content
// @Produce     json
// @Security    BearerAuth
// @Param       resource path string true "projects|testimonials|services|skills"
// @Param       id       path string true "record id"
// @Success     200 {object} domain.APIEnvelope
// @Failure     404 {object} domain.APIEnvelope
// @Router      /v1/{resource}/{id} [delete]
func (h *Handler[T, PT, C, U]) Delete(w http.ResponseWriter, r *http.Request) {
	op := h.op("delete")
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

	if err := h.Service.Delete(r.Context(), p.UserID, id); err != nil {
		logx.Info(h.Log, reqID, op, "delete failed", "id", id, "error", err.Error())
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "id", id)
	v1.WriteOKMessage(w, r, h.Noun+" deleted successfully", nil)
}
