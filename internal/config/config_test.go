package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("IMAGE_STORE", "none")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("SESSION_TTL_HOURS", "2")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "estate", cfg.MongoDBDatabase)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL())
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadConfigFileOverriddenByEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
port: "9000"
environment: production
mongodb_uri: mongodb://file-host:27017
jwt_secret: from-file
image_store: supabase
supabase:
  url: https://project.supabase.co
  anon_key: anon
redis:
  addr: localhost:6379
  cache_ttl_seconds: 60
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("MONGODB_URI", "")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("IMAGE_STORE", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "mongodb://file-host:27017", cfg.MongoDBURI)
	assert.Equal(t, "from-env", cfg.JWTSecret)
	assert.Equal(t, ImageStoreSupabase, cfg.ImageStore)
	assert.Equal(t, "listings", cfg.Supabase.Bucket)
	assert.Equal(t, time.Minute, cfg.CacheTTL())
}

func TestValidateRequiredFields(t *testing.T) {
	cfg := defaults()
	cfg.ImageStore = ImageStoreNone
	assert.EqualError(t, cfg.Validate(), "MONGODB_URI is required")

	cfg.MongoDBURI = "mongodb://localhost"
	assert.EqualError(t, cfg.Validate(), "JWT_SECRET is required")

	cfg.JWTSecret = "x"
	assert.NoError(t, cfg.Validate())

	cfg.ImageStore = ImageStoreCloudinary
	assert.Error(t, cfg.Validate())

	cfg.ImageStore = "s3"
	assert.Error(t, cfg.Validate())
}

func TestCacheTTLMustBePositive(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("IMAGE_STORE", "none")

	for _, v := range []string{"0", "-5"} {
		t.Setenv("CACHE_TTL_SECONDS", v)
		_, err := LoadConfig()
		assert.EqualError(t, err, "CACHE_TTL_SECONDS must be positive", v)
	}

	t.Setenv("CACHE_TTL_SECONDS", "30")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL())
}
