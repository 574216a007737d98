package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/divisaodecontratos2-code/v0-contratos-uenp/config"
)

// ImportArchive keeps a copy of every raw import payload in object storage
// so a bad import can be audited after the fact.
type ImportArchive struct {
	client *minio.Client
	bucket string
}

func NewImportArchive(cfg *config.MinioConfig) (*ImportArchive, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &ImportArchive{
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

// EnsureBucket creates the archive bucket if it doesn't exist
func (a *ImportArchive) EnsureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}

	if !exists {
		err = a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

// SavePayload stores one import payload under a dated, collision-free
// object name and returns that name.
func (a *ImportArchive) SavePayload(ctx context.Context, filename string, data []byte, contentType string) (string, error) {
	objectName := fmt.Sprintf("imports/%s/%s-%s",
		time.Now().Format("2006/01"), uuid.New().String(), filename)

	_, err := a.client.PutObject(ctx, a.bucket, objectName,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("failed to archive payload: %w", err)
	}

	return objectName, nil
}
