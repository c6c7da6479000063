package revision

import (
	"context"

	"github.com/Kerry350/ember-deploy-s3-index/internal/s3"
)

// Storage is the subset of object-storage operations the store needs.
// *s3.Client implements this interface.
type Storage interface {
	ListObjects(ctx context.Context) ([]s3.ObjectInfo, error)
	GetObject(ctx context.Context, key string) ([]byte, error)
	HeadObject(ctx context.Context, key string) (*s3.ObjectInfo, error)
	PutObject(ctx context.Context, key string, body []byte, opts s3.PutOptions) error
	DeleteObjects(ctx context.Context, keys []string) error
	PutWebsite(ctx context.Context, cfg s3.WebsiteConfig) error
	GetWebsite(ctx context.Context) (*s3.WebsiteConfig, error)
}
