package media

import (
	"context"
	"io"

	"github.com/ayush/portfolio-backend/internal/models"
)

// Uploader is the external media-hosting service profile assets live on.
// Upload returns a stable public identifier plus the URL the asset is
// served from; Delete removes an asset by that identifier.
type Uploader interface {
	Upload(ctx context.Context, folder, filename string, r io.Reader, size int64, contentType string) (models.Asset, error)
	Delete(ctx context.Context, publicID string) error
}
