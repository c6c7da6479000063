package doctor

import (
	"context"
	"fmt"
	"time"

	"github.com/Kerry350/ember-deploy-s3-index/internal/config"
	"github.com/Kerry350/ember-deploy-s3-index/internal/revision"
	"github.com/Kerry350/ember-deploy-s3-index/internal/tagging"
)

const checkTimeout = 5 * time.Second

type CheckResult struct {
	Name   string
	OK     bool
	Detail string
}

// Bucket is the storage the checks run against. *s3.Client implements it.
type Bucket interface {
	revision.Storage
	HeadBucket(ctx context.Context) error
}

// Failed reports whether any check failed.
func Failed(results []CheckResult) bool {
	for _, r := range results {
		if !r.OK {
			return true
		}
	}
	return false
}

func Run(ctx context.Context, cfg *config.Config, bucket Bucket) []CheckResult {
	var results []CheckResult

	if err := config.Validate(cfg); err != nil {
		return append(results, CheckResult{Name: "config", OK: false, Detail: err.Error()})
	}
	results = append(results, CheckResult{
		Name:   "config",
		OK:     true,
		Detail: fmt.Sprintf("adapter=%s mode=%s manifest_size=%d tag_length=%d", revision.AdapterName, cfg.Index.Mode, cfg.Index.ManifestSize, cfg.Index.TagLength),
	})
	if bucket == nil {
		return append(results, CheckResult{Name: "bucket", OK: false, Detail: "no s3 client"})
	}

	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	if err := bucket.HeadBucket(ctx); err != nil {
		return append(results, CheckResult{Name: "bucket", OK: false, Detail: fmt.Sprintf("head bucket failed: %v", err)})
	}
	results = append(results, CheckResult{
		Name:   "bucket",
		OK:     true,
		Detail: fmt.Sprintf("bucket %s reachable (prefix=%q)", cfg.S3.Bucket, cfg.S3.Prefix),
	})

	tagger, err := tagging.NewContentTagger(cfg.Index.TagLength)
	if err != nil {
		return append(results, CheckResult{Name: "manifest", OK: false, Detail: err.Error()})
	}
	store, err := revision.New(bucket, tagger, revision.Options{
		Mode:         cfg.Index.Mode,
		HostName:     cfg.Index.HostName,
		ManifestSize: cfg.Index.ManifestSize,
	}, nil, nil)
	if err != nil {
		return append(results, CheckResult{Name: "manifest", OK: false, Detail: err.Error()})
	}

	revisions, err := store.List(ctx)
	if err != nil {
		return append(results, CheckResult{Name: "manifest", OK: false, Detail: err.Error()})
	}
	results = append(results, checkManifest(revisions, cfg.Index.ManifestSize))

	active, err := store.Active(ctx)
	if err != nil {
		return append(results, CheckResult{Name: "active revision", OK: false, Detail: err.Error()})
	}
	return append(results, checkActive(revisions, active))
}

func checkManifest(revisions []revision.Revision, limit int) CheckResult {
	res := CheckResult{Name: "manifest", OK: true}
	switch {
	case len(revisions) == 0:
		res.Detail = "no revisions uploaded yet"
	case len(revisions) > limit:
		res.Detail = fmt.Sprintf("%d revisions, above manifest_size %d; the next upload prunes the oldest", len(revisions), limit)
	default:
		res.Detail = fmt.Sprintf("%d revision(s), newest %s (%s)", len(revisions), revisions[0].Key, revisions[0].LastModified.UTC().Format(time.RFC3339))
	}
	return res
}

func checkActive(revisions []revision.Revision, active string) CheckResult {
	res := CheckResult{Name: "active revision"}
	if active == "" {
		res.OK = true
		res.Detail = "no revision activated yet"
		return res
	}
	for _, r := range revisions {
		if r.Key == active {
			res.OK = true
			res.Detail = active
			return res
		}
	}
	res.Detail = fmt.Sprintf("live index points at %s, which is not in the manifest", active)
	return res
}
