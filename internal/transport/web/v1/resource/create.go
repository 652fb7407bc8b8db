package resource

import (
	"net/http"

	"github.com/Charlesbasis/portfolio-app/internal/domain"
	"github.com/Charlesbasis/portfolio-app/internal/transport/web/logx"
	"github.com/Charlesbasis/portfolio-app/internal/transport/web/mw"
	v1 "github.com/Charlesbasis/portfolio-app/internal/transport/web/v1"
)

// Create godoc
// @Summary     Create record
// @Description Владелец берётся из токена. slug генерируется из заголовка, если не задан.
// @Tags        content
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       resource path string true "projects|testimonials|services|skills"
// @Success     201 {object} domain.APIEnvelope{data=object}
// @Failure     401 {object} domain.APIEnvelope
// @Failure     403 {object} domain.APIEnvelope
// @Failure     422 {object} domain.APIEnvelope
// @Router      /v1/{resource} [post]
func (h *Handler[T, PT, C, U]) Create(w http.ResponseWriter, r *http.Request) {
	op := h.op("create")
	reqID := mw.RequestIDFromCtx(r.Context())

	p, ok := domain.PrincipalFromCtx(r.Context())
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrUnauth)
		return
	}

	var in C
	if err := v1.Bind(r, &in); err != nil {
		logx.Info(h.Log, reqID, op, "invalid input", "error", err.Error())
		v1.WriteDomainError(w, r, err)
		return
	}

	rec := h.Build(in)
	if err := h.Service.Create(r.Context(), p.UserID, &rec); err != nil {
		logx.Error(h.Log, reqID, op, "create failed", err, "user_id", p.UserID)
		v1.WriteDomainError(w, r, err)
		return
	}

	m := PT(&rec).GetMeta()
	logx.Info(h.Log, reqID, op, "ok", "id", m.ID, "slug", m.Slug)
	v1.WriteCreated(w, r, h.Noun+" created successfully", rec)
}
