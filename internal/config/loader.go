package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const EnvPrefix = "S3INDEX"

// envBindings lists the keys that may be supplied through the environment.
// Extra names are fallbacks checked after S3INDEX_<KEY>.
var envBindings = map[string][]string{
	"s3.endpoint":          nil,
	"s3.region":            {"AWS_REGION"},
	"s3.access_key_id":     {"AWS_ACCESS_KEY_ID"},
	"s3.secret_access_key": {"AWS_SECRET_ACCESS_KEY"},
	"s3.bucket":            nil,
	"s3.prefix":            nil,
	"index.mode":           nil,
	"index.host_name":      nil,
	"index.manifest_size":  nil,
	"index.tag_length":     nil,

	"notifications.discord.webhook_url": nil,
}

// Load reads the YAML config at path (resolved via ResolveConfigPath). When
// environment is set, only that top-level section is used.
func Load(path, environment string, checkPerms bool) (*viper.Viper, error) {
	path = ResolveConfigPath(path)
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if checkPerms {
		if err := checkConfigPermissions(path); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: config file not found: %s", ErrInvalidConfig, path)
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if environment != "" {
		sub := v.Sub(environment)
		if sub == nil {
			return nil, fmt.Errorf("%w: environment %q not found in %s", ErrInvalidConfig, environment, path)
		}
		v = sub
	}

	if err := bindEnv(v); err != nil {
		return nil, err
	}
	return v, nil
}

func bindEnv(v *viper.Viper) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, fallbacks := range envBindings {
		names := append([]string{key}, fallbacks...)
		if len(fallbacks) > 0 {
			names = append([]string{key, EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}, fallbacks...)
		}
		if err := v.BindEnv(names...); err != nil {
			return fmt.Errorf("bind env %s: %w", key, err)
		}
	}
	return nil
}

func checkConfigPermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	mode := info.Mode().Perm()

	if mode&0077 != 0 {
		return fmt.Errorf("config file %s has overly permissive mode %s (recommended: 0600)", path, mode)
	}
	return nil
}
