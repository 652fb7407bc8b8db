// Package contact обслуживает публичную форму обратной связи и входящие сообщения владельца.
package contact

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Charlesbasis/portfolio-app/internal/domain"
	"github.com/Charlesbasis/portfolio-app/internal/transport/web/logx"
	"github.com/Charlesbasis/portfolio-app/internal/transport/web/mw"
	v1 "github.com/Charlesbasis/portfolio-app/internal/transport/web/v1"
)

type Store interface {
	domain.MessagesRepo
	UserByID(ctx context.Context, id domain.UserID) (domain.User, error)
}

type Invalidator interface {
	Invalidate(ctx context.Context, owner domain.UserID)
}

type Handler struct {
	Log   *zap.Logger
	Store Store
	Inv   Invalidator
}

type contactRequest struct {
	RecipientID string `json:"recipient_id" validate:"required,uuid"`
	Name        string `json:"name" validate:"required,max=255"`
	Email       string `json:"email" validate:"required,email,max=255"`
	Subject     string `json:"subject" validate:"max=255"`
	Message     string `json:"message" validate:"required,max=5000"`
}

// Send godoc
// @Summary     Send contact message
// @Description Публичный эндпоинт, ограничен по частоте. Получатель — владелец портфолио.
// @Tags        contact
// @Accept      json
// @Produce     json
// @Param       request body contactRequest true "recipient_id, name, email, subject, message"
// @Success     201 {object} domain.APIEnvelope{data=domain.ContactMessage}
// @Failure     422 {object} domain.APIEnvelope
// @Failure     429 {object} domain.APIEnvelope
// @Router      /v1/contact [post]
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	const op = "contact.send"
	reqID := mw.RequestIDFromCtx(r.Context())

	var req contactRequest
	if err := v1.Bind(r, &req); err != nil {
		logx.Info(h.Log, reqID, op, "invalid input", "error", err.Error())
		v1.WriteDomainError(w, r, err)
		return
	}

	recipient := uuid.MustParse(req.RecipientID)
	if _, err := h.Store.UserByID(r.Context(), recipient); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			v1.WriteDomainError(w, r, domain.FieldError("recipient_id", "The selected recipient id is invalid."))
			return
		}
		logx.Error(h.Log, reqID, op, "recipient lookup failed", err)
		v1.WriteDomainError(w, r, err)
		return
	}

	msg, err := h.Store.CreateMessage(r.Context(), domain.ContactMessage{
		RecipientID: recipient,
		Name:        req.Name,
		Email:       domain.NormalizeEmail(req.Email),
		Subject:     req.Subject,
		Message:     req.Message,
	})
	if err != nil {
		logx.Error(h.Log, reqID, op, "create failed", err)
		v1.WriteDomainError(w, r, err)
		return
	}
	// счётчики непрочитанных в дашборде получателя
	h.Inv.Invalidate(r.Context(), recipient)

	logx.Info(h.Log, reqID, op, "ok", "id", msg.ID, "recipient_id", recipient)
	v1.WriteCreated(w, r, "Message sent successfully", msg)
}

// List godoc
// @Summary     List received messages
// @Tags        contact
// @Produce     json
// @Security    BearerAuth
// @Param       unread query bool false "only unread"
// @Success     200 {object} domain.APIEnvelope{data=[]domain.ContactMessage}
// @Failure     401 {object} domain.APIEnvelope
// @Router      /v1/messages [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "contact.list"
	reqID := mw.RequestIDFromCtx(r.Context())

	p, ok := domain.PrincipalFromCtx(r.Context())
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrUnauth)
		return
	}
	unread, _ := strconv.ParseBool(r.URL.Query().Get("unread"))

	msgs, err := h.Store.ListMessages(r.Context(), p.UserID, unread)
	if err != nil {
		logx.Error(h.Log, reqID, op, "list failed", err)
		v1.WriteDomainError(w, r, err)
		return
	}
	if msgs == nil {
		msgs = []domain.ContactMessage{}
	}
	v1.WriteOKData(w, r, msgs)
}

// MarkRead godoc
// @Summary     Mark message as read
// @Tags        contact
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "message id"
// @Success     200 {object} domain.APIEnvelope
// @Failure     404 {object} domain.APIEnvelope
// @Router      /v1/messages/{id}/read [patch]
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	h.byID(w, r, "contact.read", "Message marked as read", h.Store.MarkRead)
}

// Delete godoc
// @Summary     Delete message
// @Tags        contact
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "message id"
// @Success     200 {object} domain.APIEnvelope
// @Failure     404 {object} domain.APIEnvelope
// @Router      /v1/messages/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	h.byID(w, r, "contact.delete", "Message deleted successfully", h.Store.DeleteMessage)
}

func (h *Handler) byID(
	w http.ResponseWriter, r *http.Request, op, okMsg string,
	act func(ctx context.Context, id domain.RecordID, recipient domain.UserID) error,
) {
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

	if err := act(r.Context(), id, p.UserID); err != nil {
		logx.Info(h.Log, reqID, op, "failed", "id", id, "error", err.Error())
		v1.WriteDomainError(w, r, err)
		return
	}
	h.Inv.Invalidate(r.Context(), p.UserID)

	logx.Info(h.Log, reqID, op, "ok", "id", id)
	v1.WriteOKMessage(w, r, okMsg, nil)
}
