// minio выгружает готовые артефакты (JSONL веток и корпуса) в MinIO/S3.
package minio

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	mclient "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/pribylovaa/reddit-threads/internal/config"
)

// ndjsonContentType — тип содержимого выгружаемых файлов.
const ndjsonContentType = "application/x-ndjson"

// Uploader — адаптер MinIO для выгрузки файлов в бакет под общим префиксом.
type Uploader struct {
	bucket string
	prefix string
	client *mclient.Client
}

// New создает клиент MinIO.
// Убирает схему из endpoint, подбирает Secure по схеме
// и выполняет fail-fast-проверку наличия бакета.
func New(ctx context.Context, cfg config.S3Config) (*Uploader, error) {
	const op = "storage/minio/New"

	endpoint := cfg.Endpoint
	secure := strings.HasPrefix(endpoint, "https://")

	if u, err := url.Parse(endpoint); err == nil && u.Scheme != "" {
		endpoint = u.Host
		secure = u.Scheme == "https"
	}

	client, err := mclient.New(endpoint, &mclient.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !exists {
		return nil, fmt.Errorf("%s: bucket %q does not exist", op, cfg.Bucket)
	}

	return &Uploader{bucket: cfg.Bucket, prefix: cfg.Prefix, client: client}, nil
}

// ObjectKey возвращает полный ключ объекта с учетом префикса.
func (u *Uploader) ObjectKey(key string) string {
	return path.Join(u.prefix, key)
}

// Upload загружает локальный файл под ключом prefix/key и возвращает
// полный ключ и размер объекта.
func (u *Uploader) Upload(ctx context.Context, localPath, key string) (string, int64, error) {
	const op = "storage/minio/Upload"

	fullKey := u.ObjectKey(key)

	info, err := u.client.FPutObject(ctx, u.bucket, fullKey, localPath, mclient.PutObjectOptions{
		ContentType: ndjsonContentType,
	})
	if err != nil {
		return "", 0, fmt.Errorf("%s: %w", op, err)
	}

	return fullKey, info.Size, nil
}
