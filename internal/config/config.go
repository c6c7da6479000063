package config

import "github.com/spf13/viper"

const (
	ModeDirect   = "direct"
	ModeIndirect = "indirect"

	DefaultMode         = ModeIndirect
	DefaultManifestSize = 5
	DefaultTagLength    = 12
	DefaultRegion       = "us-east-1"
)

type Config struct {
	S3            *S3Config            `mapstructure:"s3" yaml:"s3"`
	Index         *IndexConfig         `mapstructure:"index" yaml:"index"`
	Notifications *NotificationsConfig `mapstructure:"notifications" yaml:"notifications,omitempty"`
}

type S3Config struct {
	Endpoint                string     `mapstructure:"endpoint" yaml:"endpoint,omitempty"`
	Region                  string     `mapstructure:"region" yaml:"region,omitempty"`
	AccessKeyID             string     `mapstructure:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey         string     `mapstructure:"secret_access_key" yaml:"secret_access_key"`
	Bucket                  string     `mapstructure:"bucket" yaml:"bucket"`
	Prefix                  string     `mapstructure:"prefix" yaml:"prefix,omitempty"`
	PathStyle               bool       `mapstructure:"path_style" yaml:"path_style,omitempty"`
	DisableRequestChecksums bool       `mapstructure:"disable_request_checksums" yaml:"disable_request_checksums,omitempty"`
	TLS                     *TLSConfig `mapstructure:"tls" yaml:"tls,omitempty"`
}

type TLSConfig struct {
	InsecureSkipVerify bool `mapstructure:"insecure_skip_verify" yaml:"insecure_skip_verify"`
}

type IndexConfig struct {
	// Mode is "direct" (bucket website index suffix) or "indirect" (index.html copy).
	Mode string `mapstructure:"mode" yaml:"mode"`
	// HostName is used by the direct-mode 404 routing rule.
	HostName     string `mapstructure:"host_name" yaml:"host_name,omitempty"`
	ManifestSize int    `mapstructure:"manifest_size" yaml:"manifest_size"`
	TagLength    int    `mapstructure:"tag_length" yaml:"tag_length,omitempty"`
}

type NotificationsConfig struct {
	Discord *DiscordConfig `mapstructure:"discord" yaml:"discord,omitempty"`
}

type DiscordConfig struct {
	Enabled        bool          `mapstructure:"enabled" yaml:"enabled"`
	WebhookURL     string        `mapstructure:"webhook_url" yaml:"webhook_url,omitempty"`
	TimeoutSeconds int           `mapstructure:"timeout_seconds" yaml:"timeout_seconds,omitempty"`
	Events         []string      `mapstructure:"events" yaml:"events,omitempty"`
	Retry          *DiscordRetry `mapstructure:"retry" yaml:"retry,omitempty"`
}

type DiscordRetry struct {
	Attempts  int `mapstructure:"attempts" yaml:"attempts"`
	BackoffMs int `mapstructure:"backoff_ms" yaml:"backoff_ms"`
}

func Unmarshal(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// ApplyDefaults fills unset index and region settings and normalises the prefix.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}
	if cfg.Index == nil {
		cfg.Index = &IndexConfig{}
	}
	if cfg.Index.Mode == "" {
		cfg.Index.Mode = DefaultMode
	}
	if cfg.Index.ManifestSize == 0 {
		cfg.Index.ManifestSize = DefaultManifestSize
	}
	if cfg.Index.TagLength == 0 {
		cfg.Index.TagLength = DefaultTagLength
	}
	if cfg.S3 != nil {
		if cfg.S3.Region == "" {
			cfg.S3.Region = DefaultRegion
		}
		cfg.S3.Prefix = NormalizePrefix(cfg.S3.Prefix)
	}
}

func DiscordEnabled(n *NotificationsConfig) bool {
	return n != nil && n.Discord != nil && n.Discord.Enabled && n.Discord.WebhookURL != ""
}
