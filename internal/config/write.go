package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

func Write(cfg *Config, path string) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config dir %s: %w", dir, err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// Template is the starter config written by "init".
func Template(bucket, mode, hostName string) *Config {
	if mode == "" {
		mode = DefaultMode
	}
	return &Config{
		S3: &S3Config{
			Region:          DefaultRegion,
			AccessKeyID:     "",
			SecretAccessKey: "",
			Bucket:          bucket,
		},
		Index: &IndexConfig{
			Mode:         mode,
			HostName:     hostName,
			ManifestSize: DefaultManifestSize,
			TagLength:    DefaultTagLength,
		},
	}
}
