package resource

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Charlesbasis/portfolio-app/internal/domain"
	"github.com/Charlesbasis/portfolio-app/internal/transport/web/logx"
	"github.com/Charlesbasis/portfolio-app/internal/transport/web/mw"
	v1 "github.com/Charlesbasis/portfolio-app/internal/transport/web/v1"
)

// Get godoc
// @Summary     Get one record
// @Description Поиск по id или по slug. Черновик виден только владельцу.
// @Tags        content
// @Produce     json
// @Param       resource path string true "projects|testimonials|services|skills"
// @Param       id       path string true "id or slug"
// @Success     200 {object} domain.APIEnvelope{data=object}
// @Failure     404 {object} domain.APIEnvelope
// @Router      /v1/{resource}/{id} [get]
func (h *Handler[T, PT, C, U]) Get(w http.ResponseWriter, r *http.Request) {
	op := h.op("get")
	reqID := mw.RequestIDFromCtx(r.Context())
	key := chi.URLParam(r, "id")

	var viewer *domain.UserID
	if p, ok := domain.PrincipalFromCtx(r.Context()); ok {
		viewer = &p.UserID
	}

	rec, err := h.Service.Get(r.Context(), key, viewer)
	if err != nil {
		logx.Info(h.Log, reqID, op, "lookup failed", "key", key, "error", err.Error())
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, rec)
}
