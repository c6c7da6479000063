package config

import (
	"os"
	"path/filepath"
)

const (
	DefaultConfigDir  = "config"
	DefaultConfigName = "deploy.yaml"
)

const EnvConfigPath = "S3INDEX_CONFIG"

func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir, DefaultConfigName)
}

// ResolveConfigPath picks the explicit path, then $S3INDEX_CONFIG, then the default.
func ResolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return DefaultConfigPath()
}
