package s3

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/Charlesbasis/portfolio-app/internal/domain"
)

type Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
	PathStyle bool
	// PublicBaseURL: откуда клиенты читают объекты (CDN или сам бакет)
	PublicBaseURL string
}

type Storage struct {
	cl      *minio.Client
	bucket  string
	baseURL string
	logger  *zap.Logger
}

func New(ctx context.Context, cfg Config, logger *zap.Logger) (*Storage, error) {
	opts := &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	}
	if cfg.PathStyle {
		opts.BucketLookup = minio.BucketLookupPath
	}
	cl, err := minio.New(cfg.Endpoint, opts)
	if err != nil {
		return nil, err
	}

	base := strings.TrimRight(cfg.PublicBaseURL, "/")
	if base == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		base = fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
	}
	return &Storage{cl: cl, bucket: cfg.Bucket, baseURL: base, logger: logger}, nil
}

// EnsureBucket создаёт бакет, если его нет (для локального MinIO).
func (s *Storage) EnsureBucket(ctx context.Context, region string) error {
	ok, err := s.cl.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	if err := s.cl.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: region}); err != nil {
		return err
	}
	s.logger.Info("bucket created", zap.String("bucket", s.bucket))
	return nil
}

// Put загружает поток и возвращает ключ вида "<prefix>/<sha256hex><ext>".
// Одинаковые файлы одного владельца ложатся в один объект.
func (s *Storage) Put(ctx context.Context, r io.Reader, prefix string, mime string) (domain.BlobPutResult, error) {
	h := sha256.New()
	pr, pw := io.Pipe()
	mw := io.MultiWriter(h, pw)

	// хэш считаем параллельно с загрузкой
	go func() {
		_, copyErr := io.Copy(mw, r)
		pw.CloseWithError(copyErr)
	}()

	tmpKey := "tmp/" + uuid.NewString()
	info, err := s.cl.PutObject(ctx, s.bucket, tmpKey, pr, -1, minio.PutObjectOptions{
		ContentType: mime,
	})
	if err != nil {
		_ = pr.CloseWithError(err)
		s.logger.Warn("put failed", zap.String("key", tmpKey), zap.Error(err))
		return domain.BlobPutResult{}, err
	}

	sha := h.Sum(nil)
	finalKey := fmt.Sprintf("%s/%x%s", strings.Trim(prefix, "/"), sha, extFor(mime))
	src := minio.CopySrcOptions{Bucket: s.bucket, Object: tmpKey}
	dst := minio.CopyDestOptions{Bucket: s.bucket, Object: finalKey}
	if _, err := s.cl.CopyObject(ctx, dst, src); err != nil {
		_ = s.cl.RemoveObject(ctx, s.bucket, tmpKey, minio.RemoveObjectOptions{})
		s.logger.Warn("copy failed", zap.String("key", finalKey), zap.Error(err))
		return domain.BlobPutResult{}, err
	}
	_ = s.cl.RemoveObject(ctx, s.bucket, tmpKey, minio.RemoveObjectOptions{})

	s.logger.Info("object stored", zap.String("key", finalKey), zap.Int64("size", info.Size))
	return domain.BlobPutResult{StorageKey: finalKey, Size: info.Size, SHA256: sha}, nil
}

func (s *Storage) Delete(ctx context.Context, storageKey string) error {
	if err := s.cl.RemoveObject(ctx, s.bucket, storageKey, minio.RemoveObjectOptions{}); err != nil {
		s.logger.Warn("remove failed", zap.String("key", storageKey), zap.Error(err))
		return err
	}
	s.logger.Info("object removed", zap.String("key", storageKey))
	return nil
}

func (s *Storage) URL(storageKey string) string {
	return s.baseURL + "/" + strings.TrimLeft(storageKey, "/")
}

func (s *Storage) Ping(ctx context.Context) error {
	ok, err := s.cl.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("bucket %q not found", s.bucket)
	}
	return nil
}

func extFor(mime string) string {
	switch mime {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	case "image/svg+xml":
		return ".svg"
	default:
		return ""
	}
}
