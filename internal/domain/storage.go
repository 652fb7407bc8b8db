package domain

import (
	"context"
	"io"
)

// Хранилище бинарного контента (S3/MinIO)
type BlobPutResult struct {
	StorageKey string
	Size       int64
	SHA256     []byte
}

type BlobStorage interface {
	// Сохранение файла под префиксом (возвращает ключ/размер/хэш)
	Put(ctx context.Context, r io.Reader, prefix string, mime string) (BlobPutResult, error)
	Delete(ctx context.Context, storageKey string) error
	// Публичный URL объекта
	URL(storageKey string) string
	Ping(ctx context.Context) error
}
