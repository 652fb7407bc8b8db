package resource

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/Charlesbasis/portfolio-app/internal/domain"
	"github.com/Charlesbasis/portfolio-app/internal/transport/web/logx"
	"github.com/Charlesbasis/portfolio-app/internal/transport/web/mw"
	v1 "github.com/Charlesbasis/portfolio-app/internal/transport/web/v1"
)

// List godoc
// @Summary     List resource records
// @Description Аноним видит только published; владелец ещё и свои черновики. grouped=true — группировка по category.
// @Tags        content
// @Produce     json
// @Param       resource path  string true  "projects|testimonials|services|skills"
// @Param       category query string false "category filter"
// @Param       user_id  query string false "owner id"
// @Param       status   query string false "draft|published"
// @Param       grouped  query bool   false "group by category"
// @Param       limit    query int    false "max records (<=500)"
// @Success     200 {object} domain.APIEnvelope{data=object}
// @Failure     422 {object} domain.APIEnvelope
// @Router      /v1/{resource} [get]
func (h *Handler[T, PT, C, U]) List(w http.ResponseWriter, r *http.Request) {
	op := h.op("list")
	reqID := mw.RequestIDFromCtx(r.Context())
	q := r.URL.Query()

	f := domain.ListFilter{Category: q.Get("category")}
	if p, ok := domain.PrincipalFromCtx(r.Context()); ok {
		f.Viewer = &p.UserID
	}

	bad := domain.NewValidationError()
	if s := q.Get("user_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			bad.Add("user_id", "The user id field must be a valid UUID.")
		} else {
			f.OwnerID = &id
		}
	}
	if s := q.Get("status"); s != "" {
		if !domain.ValidStatus(domain.Status(s)) {
			bad.Add("status", "The selected status is invalid.")
		}
		f.Status = domain.Status(s)
	}
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			bad.Add("limit", "The limit field must be at least 1.")
		}
		f.Limit = n
	}
	if !bad.Empty() {
		logx.Info(h.Log, reqID, op, "bad query", "error", bad.Error())
		v1.WriteDomainError(w, r, bad)
		return
	}

	items, err := h.Service.List(r.Context(), f)
	if err != nil {
		logx.Error(h.Log, reqID, op, "list failed", err)
		v1.WriteDomainError(w, r, err)
		return
	}

	if items == nil {
		items = []T{}
	}

	if grouped, _ := strconv.ParseBool(q.Get("grouped")); grouped {
		groups := make(map[string][]T)
		for i := range items {
			c := PT(&items[i]).GetMeta().Category
			groups[c] = append(groups[c], items[i])
		}
		logx.Info(h.Log, reqID, op, "ok", "count", len(items), "groups", len(groups))
		v1.WriteOKData(w, r, groups)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "count", len(items))
	v1.WriteOKData(w, r, items)
}
