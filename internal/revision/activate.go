package revision

import (
	"context"
	"errors"
	"strings"

	"github.com/Kerry350/ember-deploy-s3-index/internal/s3"
)

const (
	// NotFoundRedirectPrefix sends unknown paths to the client-side router.
	NotFoundRedirectPrefix = "#/"
	notFoundCode           = "404"
)

// Activator points the live index at a revision and reports which revision
// it currently points at ("" when none).
type Activator interface {
	Mode() string
	Activate(ctx context.Context, key string, body []byte) error
	Active(ctx context.Context) (string, error)
}

// DirectActivator repoints the bucket website index document suffix.
type DirectActivator struct {
	storage  Storage
	hostName string
}

func NewDirectActivator(storage Storage, hostName string) *DirectActivator {
	return &DirectActivator{storage: storage, hostName: hostName}
}

func (a *DirectActivator) Mode() string { return ModeDirect }

// Activate replaces the index suffix and routing rules. An existing error
// document is kept.
func (a *DirectActivator) Activate(ctx context.Context, key string, _ []byte) error {
	cfg := WebsiteConfig(key, a.hostName)
	current, err := a.storage.GetWebsite(ctx)
	switch {
	case errors.Is(err, s3.ErrNotFound):
	case err != nil:
		return err
	default:
		cfg.ErrorKey = current.ErrorKey
	}
	return a.storage.PutWebsite(ctx, cfg)
}

func (a *DirectActivator) Active(ctx context.Context) (string, error) {
	cfg, err := a.storage.GetWebsite(ctx)
	if errors.Is(err, s3.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	key, _ := s3.ParseRevisionKey(cfg.IndexSuffix)
	return key, nil
}

// WebsiteConfig is the direct-mode website configuration for a revision:
// the index suffix names the revision object and 404s are redirected to the
// client-side router.
func WebsiteConfig(key, hostName string) s3.WebsiteConfig {
	return s3.WebsiteConfig{
		IndexSuffix: s3.RevisionObjectKey(key),
		RoutingRules: []s3.RoutingRule{{
			HTTPErrorCode:        notFoundCode,
			HostName:             hostName,
			ReplaceKeyPrefixWith: NotFoundRedirectPrefix,
		}},
	}
}

// IndirectActivator overwrites the fixed index.html object.
type IndirectActivator struct {
	storage Storage
}

func NewIndirectActivator(storage Storage) *IndirectActivator {
	return &IndirectActivator{storage: storage}
}

func (a *IndirectActivator) Mode() string { return ModeIndirect }

func (a *IndirectActivator) Activate(ctx context.Context, key string, body []byte) error {
	return a.storage.PutObject(ctx, s3.IndexObjectKey, body, s3.PutOptions{
		ContentType:  ContentType,
		CacheControl: CacheControl,
		Metadata:     map[string]string{s3.RevisionMetadataKey: key},
	})
}

func (a *IndirectActivator) Active(ctx context.Context) (string, error) {
	info, err := a.storage.HeadObject(ctx, s3.IndexObjectKey)
	if errors.Is(err, s3.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	for k, v := range info.Metadata {
		if strings.EqualFold(k, s3.RevisionMetadataKey) {
			return v, nil
		}
	}
	return "", nil
}
