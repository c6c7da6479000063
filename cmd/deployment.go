package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Kerry350/ember-deploy-s3-index/internal/config"
	"github.com/Kerry350/ember-deploy-s3-index/internal/logging"
	"github.com/Kerry350/ember-deploy-s3-index/internal/notifier"
	"github.com/Kerry350/ember-deploy-s3-index/internal/revision"
	"github.com/Kerry350/ember-deploy-s3-index/internal/s3"
	"github.com/Kerry350/ember-deploy-s3-index/internal/tagging"
	"github.com/Kerry350/ember-deploy-s3-index/internal/ui"
)

// deployment bundles everything a command needs to talk to the bucket.
type deployment struct {
	cfg      *config.Config
	client   *s3.Client
	store    *revision.Store
	notifier notifier.Notifier
	log      logging.Logger
}

func newLogger(cmd *cobra.Command) (logging.Logger, error) {
	return logging.New(cmd.ErrOrStderr(), flagLogLevel, flagLogFormat)
}

// loadConfig reads, defaults and validates the selected config.
func loadConfig(checkPerms bool) (*config.Config, error) {
	v, err := config.Load(flagConfig, flagEnvironment, checkPerms)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Unmarshal(v)
	if err != nil {
		return nil, err
	}
	config.ApplyDefaults(cfg)
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newClient(ctx context.Context, cfg *config.Config) (*s3.Client, error) {
	return s3.New(ctx, s3.Options{
		Endpoint:                cfg.S3.Endpoint,
		Region:                  cfg.S3.Region,
		AccessKey:               cfg.S3.AccessKeyID,
		SecretKey:               cfg.S3.SecretAccessKey,
		Bucket:                  cfg.S3.Bucket,
		Prefix:                  cfg.S3.Prefix,
		PathStyle:               cfg.S3.PathStyle,
		InsecureSkipVerify:      cfg.S3.TLS != nil && cfg.S3.TLS.InsecureSkipVerify,
		DisableRequestChecksums: cfg.S3.DisableRequestChecksums,
	})
}

func openDeployment(cmd *cobra.Command) (*deployment, error) {
	ctx := cmd.Context()
	log, err := newLogger(cmd)
	if err != nil {
		return nil, err
	}
	cfg, err := loadConfig(false)
	if err != nil {
		return nil, err
	}
	client, err := newClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	tagger, err := tagging.NewContentTagger(cfg.Index.TagLength)
	if err != nil {
		return nil, err
	}
	log = log.With("bucket", client.Bucket(), "prefix", client.Prefix())
	store, err := revision.New(client, tagger, revision.Options{
		Mode:         cfg.Index.Mode,
		HostName:     cfg.Index.HostName,
		ManifestSize: cfg.Index.ManifestSize,
	}, ui.NewWriter(cmd.OutOrStdout()), log)
	if err != nil {
		return nil, err
	}
	n, err := notifier.FromConfig(cfg.Notifications)
	if err != nil {
		return nil, err
	}
	return &deployment{cfg: cfg, client: client, store: store, notifier: n, log: log}, nil
}

// notify runs fn and downgrades its failure to a warning.
func (d *deployment) notify(ctx context.Context, fn func(notifier.Notifier) error) {
	if err := fn(d.notifier); err != nil {
		d.log.Warn(ctx, "notification failed", "err", err)
	}
}

func (d *deployment) fail(ctx context.Context, op string, err error) error {
	d.notify(ctx, func(n notifier.Notifier) error {
		return n.NotifyError(ctx, d.cfg.S3.Bucket, op, err)
	})
	return err
}
