// Package media загружает изображения в объектное хранилище.
package media

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/Charlesbasis/portfolio-app/internal/domain"
	"github.com/Charlesbasis/portfolio-app/internal/transport/web/logx"
	"github.com/Charlesbasis/portfolio-app/internal/transport/web/mw"
	v1 "github.com/Charlesbasis/portfolio-app/internal/transport/web/v1"
)

// разрешённые типы (по содержимому, не по заголовку клиента)
var allowed = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

const sniffLen = 512

type Handler struct {
	Log *zap.Logger
	// Storage == nil — хранилище не настроено, эндпоинты отвечают 503
	Storage  domain.BlobStorage
	MaxBytes int64
}

// Upload godoc
// @Summary     Upload image
// @Description multipart/form-data с полем file. Только изображения, тип определяется по содержимому.
// @Tags        media
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Param       file formData file true "image"
// @Success     201 {object} domain.APIEnvelope{data=domain.Media}
// @Failure     401 {object} domain.APIEnvelope
// @Failure     413 {object} domain.APIEnvelope
// @Failure     422 {object} domain.APIEnvelope
// @Failure     503 {object} domain.APIEnvelope
// @Router      /v1/media [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	const op = "media.upload"
	reqID := mw.RequestIDFromCtx(r.Context())

	if h.Storage == nil {
		unavailable(w, r)
		return
	}
	p, ok := domain.PrincipalFromCtx(r.Context())
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrUnauth)
		return
	}

	// запас на заголовки multipart
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes+64<<10)
	file, hdr, err := r.FormFile("file")
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			v1.WriteDomainError(w, r, domain.ErrPayloadTooLarge)
			return
		}
		logx.Info(h.Log, reqID, op, "no file", "error", err.Error())
		v1.WriteDomainError(w, r, domain.FieldError("file", "The file field is required."))
		return
	}
	defer file.Close()

	if hdr.Size > h.MaxBytes {
		v1.WriteDomainError(w, r, domain.FieldError("file",
			fmt.Sprintf("The file field must not be greater than %d kilobytes.", h.MaxBytes>>10)))
		return
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		logx.Error(h.Log, reqID, op, "read failed", err)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}
	head = head[:n]
	mime := http.DetectContentType(head)
	if !allowed[mime] {
		logx.Info(h.Log, reqID, op, "rejected type", "mime", mime, "client_mime", hdr.Header.Get("Content-Type"))
		v1.WriteDomainError(w, r, domain.FieldError("file", "The file field must be an image."))
		return
	}

	res, err := h.Storage.Put(r.Context(), io.MultiReader(bytes.NewReader(head), file), prefixFor(p.UserID), mime)
	if err != nil {
		logx.Error(h.Log, reqID, op, "storage put failed", err, "user_id", p.UserID)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "key", res.StorageKey, "size", res.Size)
	v1.WriteCreated(w, r, "File uploaded successfully", domain.Media{
		Key:         res.StorageKey,
		URL:         h.Storage.URL(res.StorageKey),
		ContentType: mime,
		Size:        res.Size,
	})
}

// Delete godoc
// @Summary     Delete own image
// @Tags        media
// @Produce     json
// @Security    BearerAuth
// @Param       key query string true "storage key returned by upload"
// @Success     200 {object} domain.APIEnvelope
// @Failure     404 {object} domain.APIEnvelope
// @Failure     503 {object} domain.APIEnvelope
// @Router      /v1/media [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "media.delete"
	reqID := mw.RequestIDFromCtx(r.Context())

	if h.Storage == nil {
		unavailable(w, r)
		return
	}
	p, ok := domain.PrincipalFromCtx(r.Context())
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrUnauth)
		return
	}

	key := r.URL.Query().Get("key")
	if key == "" {
		v1.WriteDomainError(w, r, domain.FieldError("key", "The key field is required."))
		return
	}
	// только свои объекты
	if !strings.HasPrefix(key, prefixFor(p.UserID)+"/") || strings.Contains(key, "..") {
		v1.WriteDomainError(w, r, domain.ErrNotFound)
		return
	}

	if err := h.Storage.Delete(r.Context(), key); err != nil {
		logx.Error(h.Log, reqID, op, "storage delete failed", err, "key", key)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "key", key)
	v1.WriteOKMessage(w, r, "File deleted successfully", nil)
}

func prefixFor(owner domain.UserID) string {
	return "media/" + owner.String()
}

func unavailable(w http.ResponseWriter, r *http.Request) {
	v1.WriteEnvelope(w, r, http.StatusServiceUnavailable, domain.Fail("Media storage is not configured."))
}
