package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STOCKTRACK_DATABASE_STORAGE", "memory")
	t.Setenv("REDIS_ADDR", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, StorageMemory, cfg.Database.Storage)
	assert.Equal(t, devJWTSecret, cfg.JWT.Secret)
	assert.Equal(t, 5, cfg.RateLimit.Burst)
	assert.Equal(t, 30*time.Minute, cfg.Sessions.CleanupInterval)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DATABASE_URL", "postgres://user:pw@localhost:5432/stock?sslmode=disable")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("STOCKTRACK_SERVER_ENV", "production")
	t.Setenv("STOCKTRACK_JWT_SECRET", "s3cret")
	t.Setenv("STOCKTRACK_SERVER_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("STOCKTRACK_RATELIMIT_IDLE", "90s")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, StoragePostgres, cfg.Database.Storage)
	assert.Equal(t, "postgres://user:pw@localhost:5432/stock?sslmode=disable", cfg.Database.URL)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 90*time.Second, cfg.RateLimit.Idle)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stocktrack.yaml")
	yaml := `
server:
  addr: ":9090"
database:
  storage: memory
admin:
  email: admin@example.com
  password: secret1
smtp:
  server: smtp.example.com
  to: [ops@example.com]
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "admin@example.com", cfg.Admin.Email)
	assert.Equal(t, "smtp.example.com", cfg.SMTP.Server)
	assert.Equal(t, "587", cfg.SMTP.Port)
	assert.Equal(t, []string{"ops@example.com"}, cfg.SMTP.To)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"postgres without url", map[string]string{"STOCKTRACK_DATABASE_STORAGE": "postgres"}},
		{"unknown storage", map[string]string{"STOCKTRACK_DATABASE_STORAGE": "sqlite"}},
		{"production without secret", map[string]string{
			"STOCKTRACK_DATABASE_STORAGE": "memory",
			"STOCKTRACK_SERVER_ENV":       "production",
		}},
		{"admin email only", map[string]string{
			"STOCKTRACK_DATABASE_STORAGE": "memory",
			"STOCKTRACK_ADMIN_EMAIL":      "admin@example.com",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv("DATABASE_URL", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}
