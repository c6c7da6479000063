package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
s3:
  bucket: base-bucket
  access_key_id: base-key
  secret_access_key: base-secret
index:
  mode: indirect
production:
  s3:
    bucket: prod-site
    access_key_id: prod-key
    secret_access_key: prod-secret
    region: eu-west-1
  index:
    mode: direct
    host_name: www.example.com
    manifest_size: 10
`

func writeSample(t *testing.T) string {
	t.Helper()
	for _, k := range []string{"AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY", "AWS_REGION", EnvConfigPath} {
		t.Setenv(k, "")
	}
	path := filepath.Join(t.TempDir(), "deploy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0600))
	return path
}

func TestUnmarshal_IndexAndS3(t *testing.T) {
	v := viper.New()
	v.Set("s3.bucket", "mybucket")
	v.Set("s3.prefix", "blog")
	v.Set("index.mode", "direct")
	v.Set("index.host_name", "www.example.com")
	v.Set("index.manifest_size", 3)
	cfg, err := Unmarshal(v)
	require.NoError(t, err)
	require.NotNil(t, cfg.S3)
	require.NotNil(t, cfg.Index)
	assert.Equal(t, "mybucket", cfg.S3.Bucket)
	assert.Equal(t, "blog", cfg.S3.Prefix)
	assert.Equal(t, ModeDirect, cfg.Index.Mode)
	assert.Equal(t, "www.example.com", cfg.Index.HostName)
	assert.Equal(t, 3, cfg.Index.ManifestSize)
}

func TestLoad_Root(t *testing.T) {
	path := writeSample(t)

	v, err := Load(path, "", true)
	require.NoError(t, err)
	cfg, err := Unmarshal(v)
	require.NoError(t, err)
	assert.Equal(t, "base-bucket", cfg.S3.Bucket)
	assert.Equal(t, ModeIndirect, cfg.Index.Mode)
}

func TestLoad_Environment(t *testing.T) {
	path := writeSample(t)

	v, err := Load(path, "production", false)
	require.NoError(t, err)
	cfg, err := Unmarshal(v)
	require.NoError(t, err)
	ApplyDefaults(cfg)
	require.NoError(t, Validate(cfg))

	assert.Equal(t, "prod-site", cfg.S3.Bucket)
	assert.Equal(t, "prod-key", cfg.S3.AccessKeyID)
	assert.Equal(t, "eu-west-1", cfg.S3.Region)
	assert.Equal(t, ModeDirect, cfg.Index.Mode)
	assert.Equal(t, 10, cfg.Index.ManifestSize)
}

func TestLoad_UnknownEnvironment(t *testing.T) {
	path := writeSample(t)

	_, err := Load(path, "staging", false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeSample(t)
	t.Setenv("S3INDEX_S3_BUCKET", "env-bucket")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "aws-secret")

	v, err := Load(path, "production", false)
	require.NoError(t, err)
	cfg, err := Unmarshal(v)
	require.NoError(t, err)

	assert.Equal(t, "env-bucket", cfg.S3.Bucket)
	assert.Equal(t, "aws-secret", cfg.S3.SecretAccessKey)
	assert.Equal(t, "prod-key", cfg.S3.AccessKeyID)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), "", false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestLoad_PermissiveFile(t *testing.T) {
	path := writeSample(t)
	require.NoError(t, os.Chmod(path, 0644))

	_, err := Load(path, "", true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overly permissive")
}

func TestResolveConfigPath(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	assert.Equal(t, DefaultConfigPath(), ResolveConfigPath(""))
	assert.Equal(t, "x.yaml", ResolveConfigPath("x.yaml"))

	t.Setenv(EnvConfigPath, "/tmp/env.yaml")
	assert.Equal(t, "/tmp/env.yaml", ResolveConfigPath(""))
}

func TestWrite_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "deploy.yaml")

	cfg := Template("site", ModeDirect, "www.example.com")
	cfg.S3.AccessKeyID = "key"
	cfg.S3.SecretAccessKey = "secret"
	require.NoError(t, Write(cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadInConfig())
	loaded, err := Unmarshal(v)
	require.NoError(t, err)
	require.NoError(t, Validate(loaded))

	assert.Equal(t, "site", loaded.S3.Bucket)
	assert.Equal(t, ModeDirect, loaded.Index.Mode)
	assert.Equal(t, "www.example.com", loaded.Index.HostName)
	assert.Equal(t, DefaultManifestSize, loaded.Index.ManifestSize)
}

func TestWrite_Nil(t *testing.T) {
	assert.Error(t, Write(nil, filepath.Join(t.TempDir(), "x.yaml")))
}
