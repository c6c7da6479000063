package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Kerry350/ember-deploy-s3-index/internal/tagging"
)

// ErrInvalidConfig marks configuration errors. They are raised before any
// storage call and are never retried.
var ErrInvalidConfig = errors.New("invalid config")

// Validate checks a config after ApplyDefaults.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: you must supply a config", ErrInvalidConfig)
	}
	if cfg.S3 == nil {
		return fmt.Errorf("%w: s3 section is required", ErrInvalidConfig)
	}
	if strings.TrimSpace(cfg.S3.AccessKeyID) == "" || strings.TrimSpace(cfg.S3.SecretAccessKey) == "" {
		return fmt.Errorf("%w: you must supply your AWS Access Key Id and Secret Access Key", ErrInvalidConfig)
	}
	if strings.TrimSpace(cfg.S3.Bucket) == "" {
		return fmt.Errorf("%w: s3.bucket is required", ErrInvalidConfig)
	}
	if cfg.Index == nil {
		return fmt.Errorf("%w: index section is required", ErrInvalidConfig)
	}
	switch cfg.Index.Mode {
	case ModeDirect, ModeIndirect:
	case "":
		return fmt.Errorf("%w: index.mode is required (direct or indirect)", ErrInvalidConfig)
	default:
		return fmt.Errorf("%w: index.mode must be direct or indirect, got %q", ErrInvalidConfig, cfg.Index.Mode)
	}
	if cfg.Index.Mode == ModeDirect && NormalizePrefix(cfg.S3.Prefix) != "" {
		return fmt.Errorf("%w: s3.prefix is only supported with index.mode %q", ErrInvalidConfig, ModeIndirect)
	}
	if cfg.Index.ManifestSize < 1 {
		return fmt.Errorf("%w: index.manifest_size must be at least 1, got %d", ErrInvalidConfig, cfg.Index.ManifestSize)
	}
	if cfg.Index.TagLength < tagging.MinLength || cfg.Index.TagLength > tagging.MaxLength {
		return fmt.Errorf("%w: index.tag_length must be between %d and %d, got %d", ErrInvalidConfig, tagging.MinLength, tagging.MaxLength, cfg.Index.TagLength)
	}
	if d := discord(cfg); d != nil && d.Enabled && d.WebhookURL == "" {
		return fmt.Errorf("%w: notifications.discord.webhook_url is required when discord is enabled", ErrInvalidConfig)
	}
	return nil
}

func discord(cfg *Config) *DiscordConfig {
	if cfg.Notifications == nil {
		return nil
	}
	return cfg.Notifications.Discord
}
