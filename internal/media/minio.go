package media

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/ayush/portfolio-backend/internal/models"
)

// MinioUploader stores assets in a MinIO bucket.
type MinioUploader struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

func NewMinioUploader(ctx context.Context, endpoint, accessKey, secretKey, bucket, publicURL string, useSSL bool) (*MinioUploader, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	// Ensure bucket exists
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("minio bucket check: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio make bucket: %w", err)
		}
	}

	return &MinioUploader{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

// Upload streams the file under a fresh object key inside folder. The key
// doubles as the asset's public identifier.
func (u *MinioUploader) Upload(ctx context.Context, folder, filename string, r io.Reader, size int64, contentType string) (models.Asset, error) {
	key := fmt.Sprintf("%s/%s%s", folder, uuid.New().String(), path.Ext(filename))
	_, err := u.client.PutObject(ctx, u.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return models.Asset{}, fmt.Errorf("minio put: %w", err)
	}
	return models.Asset{
		PublicID: key,
		URL:      fmt.Sprintf("%s/%s/%s", u.publicURL, u.bucket, key),
	}, nil
}

// Delete removes the object behind the public identifier.
func (u *MinioUploader) Delete(ctx context.Context, publicID string) error {
	return u.client.RemoveObject(ctx, u.bucket, publicID, minio.RemoveObjectOptions{})
}
