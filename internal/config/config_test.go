package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("RCP_AUTH_JWT_SECRET", "0123456789abcdef0123")
	t.Setenv("RCP_SERVER_PORT", "9090")
	t.Setenv("RCP_AI_DEFAULT_PROVIDER", "gemini")
	t.Setenv("RCP_AUTH_TOKEN_TTL", "2h")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, ":9090", cfg.Server.Address())
	assert.Equal(t, "gemini", cfg.AI.DefaultProvider)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.True(t, cfg.Auth.RequireEmailConfirmation)
	assert.Equal(t, "rcp_client", cfg.Auth.ClientCookie)
	assert.Equal(t, int64(999), cfg.Billing.MonthlyPriceMinor)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 7000
  env: staging
auth:
  jwt_secret: file-secret-0123456789
  demo_enabled: false
billing:
  currency: EUR
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Chdir(dir)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "staging", cfg.Server.Env)
	assert.False(t, cfg.Auth.DemoEnabled)
	assert.Equal(t, "EUR", cfg.Billing.Currency)
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("RCP_AUTH_JWT_SECRET", "")

	_, err := Load("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server: ServerConfig{Port: 8080, Env: "development"},
			Auth:   AuthConfig{JWTSecret: "0123456789abcdef", TokenTTL: time.Hour},
			AI:     AIConfig{DefaultProvider: "openai"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: true},
		{name: "short secret", mutate: func(c *Config) { c.Auth.JWTSecret = "short" }, wantErr: true},
		{name: "unknown provider", mutate: func(c *Config) { c.AI.DefaultProvider = "llama" }, wantErr: true},
		{name: "deepseek provider", mutate: func(c *Config) { c.AI.DefaultProvider = "DeepSeek" }},
		{
			name: "production without webhook secret",
			mutate: func(c *Config) {
				c.Server.Env = "production"
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
