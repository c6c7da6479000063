package config

import (
	"errors"
	"strings"
	"testing"
)

func validConfig() *Config {
	cfg := &Config{
		S3: &S3Config{
			AccessKeyID:     "AKIA",
			SecretAccessKey: "secret",
			Bucket:          "site",
		},
		Index: &IndexConfig{Mode: ModeIndirect},
	}
	ApplyDefaults(cfg)
	return cfg
}

func TestValidate_Valid(t *testing.T) {
	if err := Validate(validConfig()); err != nil {
		t.Errorf("Validate(valid) = %v", err)
	}

	direct := validConfig()
	direct.Index.Mode = ModeDirect
	direct.Index.HostName = "www.example.com"
	if err := Validate(direct); err != nil {
		t.Errorf("Validate(direct) = %v", err)
	}

	prefixed := validConfig()
	prefixed.S3.Prefix = "blog"
	if err := Validate(prefixed); err != nil {
		t.Errorf("Validate(indirect with prefix) = %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config) *Config
		wantSub string
	}{
		{"nil config", func(*Config) *Config { return nil }, "you must supply a config"},
		{"no s3", func(c *Config) *Config { c.S3 = nil; return c }, "s3 section"},
		{"no access key", func(c *Config) *Config { c.S3.AccessKeyID = ""; return c }, "Access Key Id"},
		{"no secret", func(c *Config) *Config { c.S3.SecretAccessKey = " "; return c }, "Secret Access Key"},
		{"no bucket", func(c *Config) *Config { c.S3.Bucket = ""; return c }, "s3.bucket"},
		{"no index", func(c *Config) *Config { c.Index = nil; return c }, "index section"},
		{"empty mode", func(c *Config) *Config { c.Index.Mode = ""; return c }, "index.mode is required"},
		{"bad mode", func(c *Config) *Config { c.Index.Mode = "sideways"; return c }, `"sideways"`},
		{"prefix with direct", func(c *Config) *Config {
			c.Index.Mode = ModeDirect
			c.S3.Prefix = "blog/"
			return c
		}, "s3.prefix is only supported"},
		{"negative manifest", func(c *Config) *Config { c.Index.ManifestSize = -1; return c }, "manifest_size"},
		{"short tag", func(c *Config) *Config { c.Index.TagLength = 4; return c }, "tag_length"},
		{"discord without url", func(c *Config) *Config {
			c.Notifications = &NotificationsConfig{Discord: &DiscordConfig{Enabled: true}}
			return c
		}, "webhook_url"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.mutate(validConfig()))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q should mention %q", err, tt.wantSub)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{S3: &S3Config{Prefix: "/sites//blog/"}}
	ApplyDefaults(cfg)
	if cfg.Index.Mode != DefaultMode {
		t.Errorf("mode = %q, want %q", cfg.Index.Mode, DefaultMode)
	}
	if cfg.Index.ManifestSize != DefaultManifestSize {
		t.Errorf("manifest_size = %d, want %d", cfg.Index.ManifestSize, DefaultManifestSize)
	}
	if cfg.Index.TagLength != DefaultTagLength {
		t.Errorf("tag_length = %d, want %d", cfg.Index.TagLength, DefaultTagLength)
	}
	if cfg.S3.Region != DefaultRegion {
		t.Errorf("region = %q, want %q", cfg.S3.Region, DefaultRegion)
	}
	if cfg.S3.Prefix != "sites/blog" {
		t.Errorf("prefix = %q, want sites/blog", cfg.S3.Prefix)
	}

	ApplyDefaults(nil)
}
